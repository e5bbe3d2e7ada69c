package server

import (
	"bytes"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/alnah/go-report2pdf/internal/diagram"
)

const defaultPNGScale = 2

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handlePreview serves the web preview of the report.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	input := s.input
	input.HTMLOnly = true

	res, err := s.renderer.Render(r.Context(), input)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(res.HTML)
}

// handleViewer serves the page embedding the PDF. Each load issues a fresh
// one-time ticket for the PDF request.
func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	ticket := s.tickets.Issue()
	html, err := s.builder.Viewer(s.title(), "/api/pdf/"+ticket)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(html))
}

// handlePDF renders the PDF for a ticket. A ticket is consumed by its first
// request.
func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	if !s.tickets.Redeem(chi.URLParam(r, "ticket")) {
		http.Error(w, "unknown or used ticket", http.StatusNotFound)
		return
	}

	input := s.input
	input.HTMLOnly = false
	res, err := s.renderer.Render(r.Context(), input)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PDF)))
	w.Write(res.PDF)
}

// handleDiagram serves a built-in diagram as SVG or PNG. PNG accepts a
// scale query parameter.
func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	ext := path.Ext(file)
	d, err := diagram.Lookup(strings.TrimSuffix(file, ext))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	switch ext {
	case ".svg":
		svg, err := d.SVG()
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte(svg))
	case ".png":
		scale := float64(defaultPNGScale)
		if q := r.URL.Query().Get("scale"); q != "" {
			v, err := strconv.ParseFloat(q, 64)
			if err != nil || v <= 0 || v > 8 {
				http.Error(w, "scale must be a number in (0, 8]", http.StatusBadRequest)
				return
			}
			scale = v
		}
		var buf bytes.Buffer
		if err := d.PNG(&buf, scale); err != nil {
			s.renderError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	default:
		http.Error(w, "diagram format must be .svg or .png", http.StatusNotFound)
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("render failed", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (s *Server) title() string {
	if s.input.Document != nil && s.input.Document.Title != "" {
		return s.input.Document.Title
	}
	return "Project Report"
}
