package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/scrollwindow/internal/model"
	"github.com/maxviazov/scrollwindow/internal/service"
	"github.com/maxviazov/scrollwindow/pkg/response"
)

const ndjsonContentType = "application/x-ndjson"

type EntryHandler struct {
	svc service.EntryService
}

func NewEntryHandler(svc service.EntryService) *EntryHandler { return &EntryHandler{svc: svc} }

func (h *EntryHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/entries")
	{
		g.POST("", h.append)
		g.GET("/:entry_id", h.getByID)
		g.GET("", h.scroll)
	}
	r.GET("/topics/:topic/export", h.export)
}

type appendEntryRequest struct {
	Topic string `json:"topic"`
	Body  string `json:"body"`
}

func (h *EntryHandler) append(c *gin.Context) {
	var req appendEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	entry, err := h.svc.AppendEntry(c.Request.Context(), req.Topic, req.Body)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, entry)
}

func (h *EntryHandler) getByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("entry_id"), 10, 64)
	if err != nil {
		response.WriteError(c, &fieldErrors{fe: []service.FieldError{{Field: "id", Message: "must be an integer"}}})
		return
	}
	entry, err := h.svc.GetEntry(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, entry)
}

// scroll serves GET /entries?limit=&offset=&topic=&order=desc.
// Clients follow next_offset until has_more is false.
func (h *EntryHandler) scroll(c *gin.Context) {
	var fe []service.FieldError
	limit, err := queryInt(c, "limit")
	if err != nil {
		fe = append(fe, service.FieldError{Field: "limit", Message: "must be an integer"})
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		fe = append(fe, service.FieldError{Field: "offset", Message: "must be an integer"})
	}
	order := c.DefaultQuery("order", "asc")
	if order != "asc" && order != "desc" {
		fe = append(fe, service.FieldError{Field: "order", Message: "must be asc or desc"})
	}
	if len(fe) > 0 {
		response.WriteError(c, &fieldErrors{fe: fe})
		return
	}

	w, err := h.svc.ScrollEntries(c.Request.Context(), service.ScrollRequest{
		Topic:  c.Query("topic"),
		Limit:  int(limit),
		Offset: offset,
		Desc:   order == "desc",
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, w)
}

// export streams every entry of a topic as newline-delimited JSON. Headers go
// out with the first entry, so failures before it still get a JSON envelope.
func (h *EntryHandler) export(c *gin.Context) {
	enc := json.NewEncoder(c.Writer)
	wrote := false
	begin := func() {
		c.Header("Content-Type", ndjsonContentType)
		c.Status(http.StatusOK)
		wrote = true
	}
	_, err := h.svc.ExportTopic(c.Request.Context(), c.Param("topic"), func(e model.Entry) error {
		if !wrote {
			begin()
		}
		return enc.Encode(e)
	})
	if err != nil {
		if !wrote {
			response.WriteError(c, err)
			return
		}
		// headers are gone; record it for the request log
		_ = c.Error(err)
		return
	}
	if !wrote {
		begin()
	}
}

func queryInt(c *gin.Context, key string) (int64, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

// fieldErrors carries transport-level parse failures with the same shape the
// service uses for validation errors.
type fieldErrors struct{ fe []service.FieldError }

func (e *fieldErrors) Error() string                { return service.ErrInvalidInput.Error() }
func (e *fieldErrors) Unwrap() error                { return service.ErrInvalidInput }
func (e *fieldErrors) Fields() []service.FieldError { return e.fe }
