package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	memberdomain "yatra-app-go/internal/domain/member"
	"yatra-app-go/internal/transport/httpserver/middleware"
)

const maxImportBytes = 10 << 20

var errMobileReassigned = errors.New("member mobile number changed since login")

type memberResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	MobileNumber    string    `json:"mobile_number"`
	BagNumber       string    `json:"bag_number"`
	BusNumber       string    `json:"bus_number"`
	SeatNumber      string    `json:"seat_number"`
	PaymentStatus   string    `json:"payment_status"`
	PaymentMethod   string    `json:"payment_method"`
	PaymentReceiver string    `json:"payment_receiver"`
	Amount          int       `json:"amount"`
	Referral        string    `json:"referral"`
	Discount        int       `json:"discount"`
	CreatedAt       time.Time `json:"created_at"`
}

type memberListResponse struct {
	Items []memberResponse `json:"items"`
	Total int              `json:"total"`
}

type createMemberRequest struct {
	Name            string `json:"name"`
	MobileNumber    string `json:"mobile_number"`
	BagNumber       string `json:"bag_number"`
	BusNumber       string `json:"bus_number"`
	SeatNumber      string `json:"seat_number"`
	PaymentStatus   string `json:"payment_status"`
	PaymentMethod   string `json:"payment_method"`
	PaymentReceiver string `json:"payment_receiver"`
	Amount          *int   `json:"amount"`
	Referral        string `json:"referral"`
	Discount        int    `json:"discount"`
}

type updateMemberRequest struct {
	Name            *string `json:"name"`
	MobileNumber    *string `json:"mobile_number"`
	BagNumber       *string `json:"bag_number"`
	BusNumber       *string `json:"bus_number"`
	SeatNumber      *string `json:"seat_number"`
	PaymentStatus   *string `json:"payment_status"`
	PaymentMethod   *string `json:"payment_method"`
	PaymentReceiver *string `json:"payment_receiver"`
	Amount          *int    `json:"amount"`
	Referral        *string `json:"referral"`
	Discount        *int    `json:"discount"`
}

type togglePaymentRequest struct {
	Method   string `json:"method"`
	Receiver string `json:"receiver"`
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	filter, err := memberFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	members := h.Members.Search(filter)
	writeJSON(w, http.StatusOK, memberListResponse{
		Items: toMemberResponses(members),
		Total: len(members),
	})
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	amount := memberdomain.DefaultAmount
	if req.Amount != nil {
		amount = *req.Amount
	}

	created, err := h.Members.Add(r.Context(), memberdomain.Draft{
		Name:            req.Name,
		MobileNumber:    req.MobileNumber,
		BagNumber:       req.BagNumber,
		BusNumber:       req.BusNumber,
		SeatNumber:      req.SeatNumber,
		PaymentStatus:   memberdomain.PaymentStatus(req.PaymentStatus),
		PaymentMethod:   memberdomain.PaymentMethod(req.PaymentMethod),
		PaymentReceiver: req.PaymentReceiver,
		Amount:          amount,
		Referral:        req.Referral,
		Discount:        req.Discount,
	})
	if err != nil {
		h.writeMemberError(w, "members.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, toMemberResponse(created))
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	patch := memberdomain.Patch{
		Name:            req.Name,
		MobileNumber:    req.MobileNumber,
		BagNumber:       req.BagNumber,
		BusNumber:       req.BusNumber,
		SeatNumber:      req.SeatNumber,
		PaymentReceiver: req.PaymentReceiver,
		Amount:          req.Amount,
		Referral:        req.Referral,
		Discount:        req.Discount,
	}
	if req.PaymentStatus != nil {
		status := memberdomain.PaymentStatus(*req.PaymentStatus)
		patch.PaymentStatus = &status
	}
	if req.PaymentMethod != nil {
		method := memberdomain.PaymentMethod(*req.PaymentMethod)
		patch.PaymentMethod = &method
	}

	updated, err := h.Members.Update(r.Context(), id, patch)
	if err != nil {
		h.writeMemberError(w, "members.update", err, "member_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(updated))
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Members.Delete(r.Context(), id); err != nil {
		h.writeMemberError(w, "members.delete", err, "member_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) TogglePayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req togglePaymentRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Members.TogglePayment(r.Context(), id, memberdomain.Settlement{
		Method:   parseMethodParam(req.Method),
		Receiver: req.Receiver,
	})
	if err != nil {
		h.writeMemberError(w, "members.toggle_payment", err, "member_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(updated))
}

func (h *Handlers) ExportMembers(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	format, err := memberdomain.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	filter, err := memberFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var buf bytes.Buffer
	rows := memberdomain.ExportRows(h.Members.Search(filter), s.Role)
	if err := memberdomain.WriteExport(&buf, format, rows); err != nil {
		h.log.InternalError("members.export: write failed", err, "format", string(format))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	filename := memberdomain.ExportFilename(format, h.now().Format("2006-01-02"))
	writeAttachment(w, format.ContentType(), filename, buf.Bytes())
}

func (h *Handlers) ImportMembers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "multipart form with a file field is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "file is required")
		return
	}
	defer file.Close()

	rows, err := memberdomain.ParseSpreadsheet(header.Filename, file)
	if err != nil {
		if errors.Is(err, memberdomain.ErrUnsupportedFormat) {
			h.log.BusinessError("members.import: unsupported file", err, "filename", header.Filename)
			writeError(w, http.StatusBadRequest, "unsupported_format", "upload a .csv or .xlsx file")
			return
		}
		h.log.BusinessError("members.import: parse failed", err, "filename", header.Filename)
		writeError(w, http.StatusBadRequest, "invalid_file", "file could not be read")
		return
	}

	result := h.Members.ImportRows(r.Context(), rows)
	h.Metrics.ObserveImport(result.Added, result.Errors)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) MyRecords(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	// The login number may since have moved to someone else.
	m, err := h.Members.Get(s.MemberID)
	if err == nil && m.MobileNumber != s.MobileNumber {
		err = errMobileReassigned
	}
	if err != nil {
		h.log.BusinessError("members.my_records: stale session", err, "session_id", s.ID, "member_id", s.MemberID)
		if err := h.Sessions.End(r.Context(), s.ID); err != nil {
			h.log.InternalError("members.my_records: end session failed", err, "session_id", s.ID)
		}
		writeError(w, http.StatusUnauthorized, "invalid_token", "session no longer valid")
		return
	}

	members := h.Members.FindByMobile(s.MobileNumber)
	writeJSON(w, http.StatusOK, memberListResponse{
		Items: toMemberResponses(members),
		Total: len(members),
	})
}

func (h *Handlers) writeMemberError(w http.ResponseWriter, op string, err error, args ...any) {
	var validationErr *memberdomain.ValidationError
	var storeErr *memberdomain.StoreError
	switch {
	case errors.Is(err, memberdomain.ErrMemberNotFound):
		h.log.BusinessError(op+": member not found", err, args...)
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
	case errors.Is(err, memberdomain.ErrDuplicateMobile), errors.Is(err, memberdomain.ErrDuplicateBag):
		h.log.BusinessError(op+": duplicate member", err, args...)
		writeError(w, http.StatusConflict, "duplicate_member", err.Error())
	case errors.As(err, &validationErr):
		h.log.BusinessError(op+": invalid member", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_member", validationErr.Error())
	case errors.As(err, &storeErr):
		h.log.InternalError(op+": store failed", err, args...)
		writeError(w, http.StatusInternalServerError, "store_error", "could not save changes, try again")
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func memberFilterFromQuery(r *http.Request) (memberdomain.Filter, error) {
	query := r.URL.Query()
	status, err := parseStatusParam(query.Get("payment_status"))
	if err != nil {
		return memberdomain.Filter{}, err
	}
	return memberdomain.Filter{
		Query:         query.Get("q"),
		PaymentStatus: status,
		BusNumber:     query.Get("bus_number"),
	}, nil
}

func toMemberResponse(m memberdomain.Member) memberResponse {
	return memberResponse{
		ID:              m.ID,
		Name:            m.Name,
		MobileNumber:    m.MobileNumber,
		BagNumber:       m.BagNumber,
		BusNumber:       m.BusNumber,
		SeatNumber:      m.SeatNumber,
		PaymentStatus:   string(m.PaymentStatus),
		PaymentMethod:   string(m.PaymentMethod),
		PaymentReceiver: m.PaymentReceiver,
		Amount:          m.Amount,
		Referral:        m.Referral,
		Discount:        m.Discount,
		CreatedAt:       m.CreatedAt,
	}
}

func toMemberResponses(members []memberdomain.Member) []memberResponse {
	items := make([]memberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, toMemberResponse(m))
	}
	return items
}
