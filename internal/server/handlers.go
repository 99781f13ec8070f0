package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"assetgen/internal/encode"
	"assetgen/internal/preset"
	"assetgen/internal/raster"
	"assetgen/internal/resample"
	"assetgen/internal/session"
	"assetgen/internal/source"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxCommandBytes = 64 << 10

type assetResponse struct {
	ID     string         `json:"id"`
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Format string         `json:"format"`
	State  *session.State `json:"state,omitempty"`
}

type commandResponse struct {
	State  session.State       `json:"state"`
	Events []session.EventJSON `json:"events"`
}

type bundlesResponse struct {
	Bundles       []preset.Bundle `json:"bundles"`
	PreviewSizes  []preset.Entry  `json:"preview_sizes"`
	Tiers         []string        `json:"tiers"`
	Formats       []string        `json:"formats"`
	Interpolators []string        `json:"interpolators"`
}

type previewQuery struct {
	Size    string
	Quality string `validate:"omitempty,oneof=standard high ultra"`
}

type exportQuery struct {
	Size    string
	Quality string `validate:"omitempty,oneof=standard high ultra"`
	Format  string `validate:"omitempty,oneof=png webp"`
}

func (s *Server) handleBundles(w http.ResponseWriter, r *http.Request) {
	resp := bundlesResponse{
		PreviewSizes:  preset.PreviewSizes,
		Tiers:         []string{resample.Standard.String(), resample.High.String(), resample.Ultra.String()},
		Formats:       []string{encode.PNG.String(), encode.WebP.String()},
		Interpolators: resample.InterpolatorNames(),
	}
	for _, k := range preset.Kinds() {
		b, _ := preset.Lookup(k)
		resp.Bundles = append(resp.Bundles, b)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	name, data, err := readUpload(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	img, err := source.DecodeNamed(name, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id := s.cache.Put(img)
	_, sess, ok := s.sessionFor(id)
	if !ok {
		// Evicted by concurrent uploads before we could register it.
		sess = s.newSession(img)
	}

	s.logger.Info("asset uploaded",
		zap.String("id", id),
		zap.String("format", img.Format),
		zap.Stringer("size", img.Size()))

	st := sess.State()
	writeJSON(w, http.StatusCreated, assetResponse{
		ID:     id,
		Width:  img.Buffer.Width,
		Height: img.Buffer.Height,
		Format: img.Format,
		State:  &st,
	})
}

// readUpload returns the file name and bytes of a multipart "file" field
// or, for any other content type, of the raw body.
func readUpload(r *http.Request) (string, []byte, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return "", nil, badRequest(fmt.Errorf("upload: %w", err))
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return "", nil, badRequest(fmt.Errorf("upload: %w", err))
		}
		return hdr.Filename, data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, badRequest(fmt.Errorf("upload: %w", err))
	}
	if len(data) == 0 {
		return "", nil, badRequest(errors.New("upload: empty body"))
	}
	return r.URL.Query().Get("name"), data, nil
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	img, sess, err := s.lookup(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st := sess.State()
	writeJSON(w, http.StatusOK, assetResponse{
		ID:     id,
		Width:  img.Buffer.Width,
		Height: img.Buffer.Height,
		Format: img.Format,
		State:  &st,
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	img, sess, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	query := r.URL.Query()
	q := previewQuery{
		Size:    query.Get("size"),
		Quality: strings.ToLower(query.Get("quality")),
	}
	if err := s.validate.Struct(q); err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}
	tier, err := tierOr(q.Quality, sess.State().Tier)
	if err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}

	var data []byte
	if q.Size == "" {
		data, err = encode.Bytes(img.Buffer, encode.PNG)
	} else {
		var size raster.Size
		size, err = preset.ParseSize(q.Size)
		if err != nil {
			s.writeError(w, r, badRequest(err))
			return
		}
		data, err = s.exporter.Preview(img.Buffer, size, tier)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", encode.PNG.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCommandBytes))
	if err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}
	cmd, err := session.DecodeCommand(body)
	if err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}

	st, events, err := sess.Dispatch(cmd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{State: st, Events: session.EncodeEvents(events)})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	img, sess, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	query := r.URL.Query()
	q := exportQuery{
		Size:    query.Get("size"),
		Quality: strings.ToLower(query.Get("quality")),
		Format:  strings.ToLower(query.Get("format")),
	}
	if err := s.validate.Struct(q); err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}

	st := sess.State()
	tier, err := tierOr(q.Quality, st.Tier)
	if err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}
	format := s.format
	if q.Format != "" {
		if format, err = encode.ParseFormat(q.Format); err != nil {
			s.writeError(w, r, badRequest(err))
			return
		}
	}

	bundle, err := resolveBundle(chi.URLParam(r, "bundle"), q.Size, st)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	art, report, err := s.exporter.Export(r.Context(), img.Buffer, bundle, tier, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.Header().Set("X-Assets-Generated", strconv.Itoa(report.Generated))
	w.Header().Set("X-Assets-Failed", strconv.Itoa(len(report.Failed)))
	_, _ = w.Write(art.Data)
}

// resolveBundle returns the named bundle. A custom export takes its size
// from the query or, failing that, from the session's custom selection.
func resolveBundle(name, size string, st session.State) (preset.Bundle, error) {
	kind := preset.Kind(strings.ToLower(name))
	if kind != preset.Custom {
		b, ok := preset.Lookup(kind)
		if !ok {
			return preset.Bundle{}, fmt.Errorf("bundle %q: %w", name, errNotFound)
		}
		return b, nil
	}

	var target raster.Size
	switch {
	case size != "":
		parsed, err := preset.ParseSize(size)
		if err != nil {
			return preset.Bundle{}, badRequest(err)
		}
		target = parsed
	case st.Mode == preset.Custom && st.Selected != nil:
		target = *st.Selected
	default:
		return preset.Bundle{}, badRequest(errors.New("custom export needs a size"))
	}
	return preset.NewCustom(target)
}
