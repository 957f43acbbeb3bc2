package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/recoverpay/gateway/internal/audit"
	"github.com/recoverpay/gateway/internal/excel"
	"github.com/recoverpay/gateway/internal/models"
	"github.com/recoverpay/gateway/internal/session"
	"github.com/recoverpay/gateway/internal/upstream"
)

// maxImportBytes caps customer import workbooks at 20MB.
const maxImportBytes = 20 << 20

// validExcelTypes are the accepted import content types.
var validExcelTypes = map[string]bool{
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel.sheet.macroEnabled.12":                    true,
}

// CustomersHandler serves the admin customer routes.
type CustomersHandler struct {
	api      *upstream.Client
	sessions *session.Manager
	recorder *audit.Recorder
}

// NewCustomersHandler constructs a CustomersHandler.
func NewCustomersHandler(api *upstream.Client, sessions *session.Manager, recorder *audit.Recorder) *CustomersHandler {
	return &CustomersHandler{api: api, sessions: sessions, recorder: recorder}
}

// queryFromRequest maps the request query onto the upstream listing query.
func queryFromRequest(c *gin.Context) upstream.CustomerQuery {
	return upstream.CustomerQuery{
		Page:     c.Query("page"),
		PerPage:  c.Query("perPage"),
		Filter:   c.Query("filter"),
		Customer: c.Query("customer"),
		Phone:    c.Query("phone"),
		Email:    c.Query("email"),
		Lender:   c.Query("lender"),
	}
}

// List passes a customer page through verbatim: paging, status filter and
// the text filters all run upstream.
func (h *CustomersHandler) List(c *gin.Context) {
	raw, status, errList := h.api.ListCustomersRaw(c.Request.Context(), sessionToken(c), queryFromRequest(c))
	if errList != nil {
		relayFailure(c, h.sessions, errList)
		return
	}
	if status == http.StatusUnauthorized {
		h.sessions.Clear(c, session.KindAdmin)
		respondError(c, http.StatusUnauthorized, "Unauthorized: Invalid or expired token")
		return
	}
	c.Data(status, "application/json", raw)
}

// Get fetches one customer record by phone number.
func (h *CustomersHandler) Get(c *gin.Context) {
	phone := strings.TrimSpace(c.Param("phoneNumber"))
	if phone == "" {
		respondError(c, http.StatusBadRequest, "Missing required fields: phone number.")
		return
	}
	raw, errGet := h.api.GetCustomer(c.Request.Context(), sessionToken(c), phone)
	if errGet != nil {
		relayFailure(c, h.sessions, errGet)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// updatePaymentTypeRequest is the payment-type change body. Extra fields
// are forwarded untouched.
type updatePaymentTypeRequest map[string]any

// UpdatePaymentType forwards a payment-type change after checking the
// required fields.
func (h *CustomersHandler) UpdatePaymentType(c *gin.Context) {
	var body updatePaymentTypeRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if body["payment_type"] == nil || body["customer_id"] == nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	ordinal, okOrdinal := body["payment_type"].(float64)
	if !okOrdinal || ordinal != float64(int(ordinal)) || !models.PaymentType(int(ordinal)).Valid() {
		respondError(c, http.StatusBadRequest, "Invalid payment type.")
		return
	}
	ctx := c.Request.Context()
	raw, errUpdate := h.api.UpdatePaymentType(ctx, sessionToken(c), map[string]any(body))
	if errUpdate != nil {
		relayFailure(c, h.sessions, errUpdate)
		return
	}
	h.recorder.Record(ctx, requestID(c), audit.ActorAdmin, adminEmail(c), audit.ActionPaymentTypeSet, map[string]any{
		"customer_id":  body["customer_id"],
		"payment_type": body["payment_type"],
	})
	c.Data(http.StatusOK, "application/json", raw)
}

// Upload pre-scans an import workbook and forwards it re-wrapped. A
// workbook missing required headers is refused here with the exact missing
// subset; it never reaches the upstream.
func (h *CustomersHandler) Upload(c *gin.Context) {
	header, errForm := c.FormFile("file")
	if errForm != nil {
		respondError(c, http.StatusBadRequest, "No file uploaded.")
		return
	}
	if !validExcelTypes[header.Header.Get("Content-Type")] {
		respondError(c, http.StatusBadRequest, "Invalid file type. Please upload an Excel file.")
		return
	}
	if header.Size > maxImportBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "Excel file must be 20MB or smaller.")
		return
	}
	file, errOpen := header.Open()
	if errOpen != nil {
		respondError(c, http.StatusBadRequest, "No file uploaded.")
		return
	}
	defer func() { _ = file.Close() }()
	content, errRead := io.ReadAll(io.LimitReader(file, maxImportBytes))
	if errRead != nil {
		respondError(c, http.StatusBadRequest, "No file uploaded.")
		return
	}

	missing, errScan := excel.ScanCustomerHeaders(bytes.NewReader(content))
	if errScan != nil {
		respondError(c, http.StatusBadRequest, "Invalid file type. Please upload an Excel file.")
		return
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":        false,
			"message":        "Missing required headers: " + strings.Join(missing, ", "),
			"missingHeaders": missing,
		})
		return
	}

	ctx := c.Request.Context()
	result, errUpload := h.api.UploadCustomers(ctx, sessionToken(c), header.Filename, bytes.NewReader(content))
	if errUpload != nil {
		if apiErr, ok := upstream.AsAPIError(errUpload); ok {
			response := gin.H{"success": false, "message": apiErr.Message}
			if result != nil {
				response["missingHeaders"] = result.MissingHeaders
				response["responseTime"] = result.ResponseTime
			}
			if apiErr.Status == http.StatusUnauthorized {
				h.sessions.Clear(c, session.KindAdmin)
			}
			c.JSON(apiErr.Status, response)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to upload Excel file.")
		return
	}
	h.recorder.Record(ctx, requestID(c), audit.ActorAdmin, adminEmail(c), audit.ActionCustomersImport, map[string]any{
		"filename": header.Filename,
		"bytes":    header.Size,
	})
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Excel file uploaded successfully.",
		"data":         result.Data,
		"responseTime": result.ResponseTime,
	})
}

// Export re-queries the full filtered customer set and streams the styled
// workbook.
func (h *CustomersHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	token := sessionToken(c)

	query := queryFromRequest(c)
	query.Page = "1"
	list, errList := h.api.ListCustomers(ctx, token, query)
	if errList != nil {
		relayFailure(c, h.sessions, errList)
		return
	}
	// One page rarely covers the full filtered set; re-query at full size.
	if list.TotalRecords > len(list.Data) {
		query.PerPage = strconv.Itoa(list.TotalRecords)
		full, errFull := h.api.ListCustomers(ctx, token, query)
		if errFull != nil {
			relayFailure(c, h.sessions, errFull)
			return
		}
		list = full
	}

	workbook, totals, errBuild := excel.BuildCustomerWorkbook(list.Data)
	if errBuild != nil {
		relayFailure(c, h.sessions, errBuild)
		return
	}
	h.recorder.Record(ctx, requestID(c), audit.ActorAdmin, adminEmail(c), audit.ActionCustomersExport, map[string]any{
		"rows":             len(list.Data),
		"fore_closure_sum": totals.ForeClosure.String(),
		"settlement_sum":   totals.Settlement.String(),
	})

	filename := fmt.Sprintf("customers_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if errWrite := workbook.Write(c.Writer); errWrite != nil {
		log.WithError(errWrite).Error("admin: stream export workbook")
	}
}
