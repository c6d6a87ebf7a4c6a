package server

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/KaramelBytes/dataexplorer/internal/cue"
)

var wavCache sync.Map // cue.Cue -> []byte

func (s *Server) listCues(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, cue.All)
}

func (s *Server) cueWAV(w http.ResponseWriter, r *http.Request) {
	c, err := cue.Parse(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var wav []byte
	if v, ok := wavCache.Load(c); ok {
		wav = v.([]byte)
	} else {
		wav, err = cue.Render(c, cue.DefaultSampleRate)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		wavCache.Store(c, wav)
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(wav)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(wav)
}
