package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/nvkalinin/workday-locator/log"
	"github.com/nvkalinin/workday-locator/store"
	"github.com/nvkalinin/workday-locator/workday"
)

const dateLayout = "2006-01-02"

type Store interface {
	FindMonth(y int, mon time.Month) (store.Days, bool)
	FindYear(y int) (store.Months, bool)
}

type Updater interface {
	UpdateCalendar(y int) error
}

type Server struct {
	Store   Store
	Updater Updater // Необязательный, без него /api/admin/sync отвечает 501.
	Opts    Opts

	mu   sync.Mutex
	http *http.Server
}

type Opts struct {
	Listen      string
	LogRequests bool
	AdminPasswd string // Если пустой, /api/admin/* недоступны.

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	RateLimiter bool
	ReqLimit    int
	LimitWindow time.Duration
}

// Run блокируется до Shutdown. После Shutdown возвращает http.ErrServerClosed.
func (s *Server) Run() error {
	s.mu.Lock()
	s.http = &http.Server{
		Addr:              s.Opts.Listen,
		Handler:           s.routes(),
		ReadTimeout:       s.Opts.ReadTimeout,
		ReadHeaderTimeout: s.Opts.ReadHeaderTimeout,
		WriteTimeout:      s.Opts.WriteTimeout,
		IdleTimeout:       s.Opts.IdleTimeout,
	}
	srv := s.http
	s.mu.Unlock()

	log.Printf("[INFO] rest: listening on %s", s.Opts.Listen)
	return srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("rest shutdown: %w", err)
	}
	return nil
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()

	if s.Opts.LogRequests {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	r.Route("/api", func(r chi.Router) {
		if s.Opts.RateLimiter {
			r.Use(httprate.LimitByIP(s.Opts.ReqLimit, s.Opts.LimitWindow))
		}

		r.Get("/workday/{y}/{m}", s.monthCtrl)
		r.Get("/workday/{y}/{m}/{n}", s.workdayCtrl)

		r.Get("/exclusions/{y}", s.exclYearCtrl)
		r.Get("/exclusions/{y}/{m}", s.exclMonthCtrl)

		if s.Opts.AdminPasswd != "" {
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.BasicAuth("admin", map[string]string{"admin": s.Opts.AdminPasswd}))
				r.Post("/sync", s.syncCtrl)
				r.Get("/backup", s.backupCtrl)
			})
		}
	})

	return r
}

type workdayResp struct {
	Date    string `json:"date"`
	WeekDay string `json:"weekDay"`
	Nth     int    `json:"nth"`
}

func (s *Server) workdayCtrl(w http.ResponseWriter, r *http.Request) {
	y, err1 := intParam(r, "y")
	m, err2 := intParam(r, "m")
	n, err3 := intParam(r, "n")
	if err := combineErrors(err1, err2, err3); err != nil {
		sendErrorJson(w, http.StatusBadRequest, "invalid date")
		return
	}

	q, err := s.makeQuery(r, y, time.Month(m))
	if err != nil {
		sendErrorJson(w, http.StatusBadRequest, err.Error())
		return
	}
	q.Nth = n

	date, err := workday.Locate(q)
	if err != nil {
		sendLocateError(w, err)
		return
	}

	sendJsonResponse(w, workdayResp{
		Date:    date.Format(dateLayout),
		WeekDay: workday.ShortName(date.Weekday()),
		Nth:     n,
	})
}

type monthResp struct {
	Count int      `json:"count"`
	Days  []string `json:"days"`
}

func (s *Server) monthCtrl(w http.ResponseWriter, r *http.Request) {
	y, err1 := intParam(r, "y")
	m, err2 := intParam(r, "m")
	if err := combineErrors(err1, err2); err != nil {
		sendErrorJson(w, http.StatusBadRequest, "invalid date")
		return
	}

	q, err := s.makeQuery(r, y, time.Month(m))
	if err != nil {
		sendErrorJson(w, http.StatusBadRequest, err.Error())
		return
	}

	days, err := workday.List(q)
	if err != nil {
		sendLocateError(w, err)
		return
	}

	resp := monthResp{Count: len(days), Days: make([]string, len(days))}
	for i, d := range days {
		resp.Days[i] = d.Format(dateLayout)
	}
	sendJsonResponse(w, resp)
}

// makeQuery читает параметры weekday, exclude и holidays.
// weekday и exclude можно повторять и перечислять через запятую.
// Пустой weekday (или weekday=none) - ни одного рабочего дня недели.
func (s *Server) makeQuery(r *http.Request, y int, m time.Month) (workday.Query, error) {
	q := workday.Query{Year: y, Month: m}
	params := r.URL.Query()

	if vals, ok := params["weekday"]; ok {
		days, err := workday.ParseWeekdays(vals)
		if err != nil {
			return q, err
		}
		q.Weekdays = days
	}

	if vals, ok := params["exclude"]; ok {
		days, err := parseDays(vals)
		if err != nil {
			return q, err
		}
		q.Exclude = days
	}

	if useHolidays, _ := strconv.ParseBool(params.Get("holidays")); useHolidays {
		if days, found := s.Store.FindMonth(y, m); found {
			q.Exclude = append(append([]int{}, q.Exclude...), days...)
		}
	}

	return q, nil
}

func parseDays(vals []string) ([]int, error) {
	days := make([]int, 0, len(vals))
	for _, val := range vals {
		for _, part := range strings.Split(val, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			d, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid day of month '%s'", workday.ErrInvalidArgument, part)
			}
			days = append(days, d)
		}
	}
	return days, nil
}

func (s *Server) exclYearCtrl(w http.ResponseWriter, r *http.Request) {
	y, err := intParam(r, "y")
	if err != nil || y <= 0 {
		sendErrorJson(w, http.StatusBadRequest, "invalid year")
		return
	}

	year, found := s.Store.FindYear(y)
	if !found {
		sendErrorJson(w, http.StatusNotFound, "year not found")
		return
	}

	sendJsonResponse(w, year)
}

func (s *Server) exclMonthCtrl(w http.ResponseWriter, r *http.Request) {
	y, err1 := intParam(r, "y")
	m, err2 := intParam(r, "m")
	if err := combineErrors(err1, err2); err != nil {
		sendErrorJson(w, http.StatusBadRequest, "invalid date")
		return
	}

	days, found := s.Store.FindMonth(y, time.Month(m))
	if !found {
		sendErrorJson(w, http.StatusNotFound, "month not found")
		return
	}

	sendJsonResponse(w, days)
}

func intParam(r *http.Request, param string) (int, error) {
	strVal := chi.URLParam(r, param)
	return strconv.Atoi(strVal)
}

func combineErrors(err ...error) error {
	nonNil := make([]error, 0, len(err))
	for _, e := range err {
		if e != nil {
			nonNil = append(nonNil, e)
		}
	}

	if len(nonNil) == 0 {
		return nil
	}
	return fmt.Errorf("%+v", nonNil)
}

func sendLocateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workday.ErrInvalidArgument):
		sendErrorJson(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, workday.ErrNotFound):
		sendErrorJson(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("[ERROR] rest: unexpected locate error: %+v", err)
		sendErrorJson(w, http.StatusInternalServerError, "internal error")
	}
}

func sendJsonResponse(w http.ResponseWriter, data interface{}) {
	respJson, err := json.Marshal(data)
	if err != nil {
		log.Printf("[WARN] cannot marshal response data: %+v", err)
		sendErrorJson(w, http.StatusInternalServerError, "cannot marshal response data")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(respJson); err != nil {
		log.Printf("[WARN] cannot write response data: %+v", err)
	}
}

func sendErrorJson(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	restErr := &struct {
		Msg string `json:"msg"`
	}{msg}

	errJson, err := json.Marshal(restErr)
	if err != nil {
		log.Printf("[WARN] cannot marshal rest error: %+v", err)
		return
	}

	if _, err = w.Write(errJson); err != nil {
		log.Printf("[WARN] cannot write rest error: %+v", err)
	}
}
