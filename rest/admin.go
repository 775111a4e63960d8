package rest

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/nvkalinin/workday-locator/log"
)

type Backuper interface {
	Backup(w io.Writer) error
}

// syncCtrl перечитывает исключения за годы из формы (y=2022&y=2023).
// Ответ - JSON вида {"2022": "ok", "2023": "<текст ошибки>"}.
func (s *Server) syncCtrl(w http.ResponseWriter, r *http.Request) {
	if s.Updater == nil {
		sendErrorJson(w, http.StatusNotImplemented, "sync is not configured")
		return
	}

	if err := r.ParseForm(); err != nil {
		sendErrorJson(w, http.StatusBadRequest, "invalid form")
		return
	}

	vals := r.PostForm["y"]
	if len(vals) == 0 {
		sendErrorJson(w, http.StatusBadRequest, "no years to sync")
		return
	}

	years := make([]int, 0, len(vals))
	for _, val := range vals {
		y, err := strconv.Atoi(val)
		if err != nil || y <= 0 {
			sendErrorJson(w, http.StatusBadRequest, fmt.Sprintf("invalid year '%s'", val))
			return
		}
		years = append(years, y)
	}

	res := make(map[int]string, len(years))
	for _, y := range years {
		if err := s.Updater.UpdateCalendar(y); err != nil {
			log.Printf("[WARN] rest: sync %d: %+v", y, err)
			res[y] = err.Error()
			continue
		}
		res[y] = "ok"
	}

	sendJsonResponse(w, res)
}

func (s *Server) backupCtrl(w http.ResponseWriter, r *http.Request) {
	b, ok := s.Store.(Backuper)
	if !ok {
		sendErrorJson(w, http.StatusNotImplemented, "store does not support backups")
		return
	}

	fname := fmt.Sprintf("excl_%s.bolt.gz", time.Now().Format(dateLayout))
	w.Header().Set("Content-Type", "application/gzip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fname))
	w.WriteHeader(http.StatusOK)

	gz := gzip.NewWriter(w)
	if err := b.Backup(gz); err != nil {
		log.Printf("[ERROR] rest: backup: %+v", err)
		// Статус 200 уже отправлен. Рвем соединение без gzip trailer, чтобы клиент не принял обрезанный бекап за целый.
		panic(http.ErrAbortHandler)
	}
	if err := gz.Close(); err != nil {
		log.Printf("[WARN] rest: cannot close gzip writer: %+v", err)
	}
}
