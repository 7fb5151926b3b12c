package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jusunglee/josa"
	"github.com/jusunglee/josa/hangul"
	"github.com/jusunglee/josa/internal/metrics"
	"github.com/samber/lo"
)

const (
	maxBatchNouns = 1000
	maxBodyBytes  = 1 << 20
)

type JosaHandler struct {
	selector *josa.Selector
	log      *slog.Logger
}

func NewJosaHandler(selector *josa.Selector, log *slog.Logger) *JosaHandler {
	return &JosaHandler{selector: selector, log: log}
}

type selectionResponse struct {
	Noun      string        `json:"noun"`
	Category  josa.Category `json:"category"`
	Josa      string        `json:"josa"`
	Result    string        `json:"result"`
	Class     string        `json:"class,omitempty"`
	Fallback  string        `json:"fallback,omitempty"`
	Romanized string        `json:"romanized,omitempty"`
	Error     string        `json:"error,omitempty"`
}

type allResponse struct {
	Noun  string              `json:"noun"`
	Forms []selectionResponse `json:"forms"`
}

type batchRequest struct {
	Category *josa.Category `json:"category"`
	Nouns    []string       `json:"nouns"`
	Strict   bool           `json:"strict"`
}

type batchResponse struct {
	Results []selectionResponse `json:"results"`
}

// resolve runs the lenient path and reports the strict error alongside it.
func (h *JosaHandler) resolve(noun string, c josa.Category) (selectionResponse, error) {
	resp := selectionResponse{Noun: noun, Category: c}
	if hangul.HasSyllable(noun) {
		resp.Romanized = hangul.Romanize(noun)
	}

	cls, err := h.selector.ClassOf(noun)
	result := resultLabel(err)
	metrics.SelectionsTotal.WithLabelValues(c.Kebab(), result).Inc()

	resp.Result = h.selector.Concat(noun, c)
	resp.Josa = resp.Result[len(noun):]
	if err != nil {
		resp.Fallback = result
		return resp, err
	}
	resp.Class = cls.String()
	return resp, nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, josa.ErrEmptyString):
		return metrics.ResultEmpty
	case josa.IsNotHangulSyllable(err):
		return metrics.ResultNotHangul
	default:
		return "error"
	}
}

// Select handles GET /api/v1/josa?noun=&category=&strict=
func (h *JosaHandler) Select(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	c, ok := parseCategory(w, q.Get("category"))
	if !ok {
		return
	}
	strict := false
	if s := q.Get("strict"); s != "" {
		var err error
		if strict, err = strconv.ParseBool(s); err != nil {
			writeError(w, http.StatusBadRequest, "strict must be a boolean")
			return
		}
	}

	noun := q.Get("noun")
	resp, err := h.resolve(noun, c)
	if err != nil && strict {
		h.log.Debug("strict selection failed", "noun", noun, "category", c, "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// All handles GET /api/v1/josa/all?noun=
func (h *JosaHandler) All(w http.ResponseWriter, r *http.Request) {
	noun := r.URL.Query().Get("noun")
	forms := lo.Map(josa.Categories(), func(c josa.Category, _ int) selectionResponse {
		resp, _ := h.resolve(noun, c)
		return resp
	})
	writeJSON(w, http.StatusOK, allResponse{Noun: noun, Forms: forms})
}

// Batch handles POST /api/v1/josa/batch
func (h *JosaHandler) Batch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Category == nil {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}
	if len(req.Nouns) > maxBatchNouns {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d nouns per batch", maxBatchNouns))
		return
	}
	metrics.BatchSize.Observe(float64(len(req.Nouns)))

	results := lo.Map(req.Nouns, func(noun string, _ int) selectionResponse {
		resp, err := h.resolve(noun, *req.Category)
		if err != nil && req.Strict {
			return selectionResponse{
				Noun:     noun,
				Category: *req.Category,
				Error:    err.Error(),
			}
		}
		return resp
	})
	writeJSON(w, http.StatusOK, batchResponse{Results: results})
}

func parseCategory(w http.ResponseWriter, raw string) (josa.Category, bool) {
	if raw == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return 0, false
	}
	c, err := josa.ParseCategory(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return c, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
