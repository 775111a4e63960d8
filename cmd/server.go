package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/nvkalinin/workday-locator/calendar"
	"github.com/nvkalinin/workday-locator/log"
	"github.com/nvkalinin/workday-locator/rest"
	"github.com/nvkalinin/workday-locator/source"
	"github.com/nvkalinin/workday-locator/store"
	"github.com/nvkalinin/workday-locator/store/engine"
	"golang.org/x/sync/errgroup"
)

type EngineType string

var (
	EngineMemory EngineType = "memory"
	EngineBolt   EngineType = "bolt"
)

type Server struct {
	SyncAt      string   `long:"sync-at" env:"SYNC_AT" value-name:"hh:mm[:ss]" description:"В какое время перечитывать исключения из источников. Обновление происходит один раз в сутки. Если не указано, то автоматическое обновление отключено."`
	SyncOnStart []string `long:"sync-on-start" env:"SYNC_ON_START" env-delim:"," value-name:"year" default:"current" default:"next" description:"За какие годы загрузить исключения при запуске. Можно указывать числа, 'current' — текущий год, 'next' — следующий год. 'none' — отключить загрузку при запуске."`

	Web struct {
		Listen      string `long:"listen" env:"LISTEN" value-name:"addr" default:"0.0.0.0:80" description:"Сетевой адрес для веб-сервера."`
		AccessLog   bool   `long:"access-log" env:"ACCESS_LOG" description:"Логировать все HTTP-запросы."`
		AdminPasswd string `long:"admin-passwd" env:"ADMIN_PASSWD" description:"Пароль пользователя admin для вызова /api/admin/*. Если не задан, /api/admin/* отключены."`

		ReadTimeout       time.Duration `long:"read-timeout" env:"READ_TIMEOUT" value-name:"duration" default:"5s" description:"http.Server ReadTimeout"`
		ReadHeaderTimeout time.Duration `long:"read-header-timeout" env:"READ_HEADER_TIMEOUT" value-name:"duration" default:"5s" description:"http.Server ReadHeaderTimeout"`
		IdleTimeout       time.Duration `long:"idle-timeout" env:"IDLE_TIMEOUT" value-name:"duration" default:"30s" description:"http.Server IdleTimeout"`

		// Бекап bolt может выполняться долго, поэтому WriteTimeout должен быть достаточно большим.
		WriteTimeout time.Duration `long:"write-timeout" env:"WRITE_TIMEOUT" value-name:"duration" default:"60s" description:"http.Server WriteTimeout"`

		RateLimiter struct {
			ReqLimit    int           `long:"reqs" env:"REQS" value-name:"num" default:"100" description:"Количество запросов с одного IP. Если 0 — rate limiter отключен."`
			LimitWindow time.Duration `long:"window" env:"WINDOW" value-name:"duration" default:"1s" description:"Интервал времени, за который разрешено указанное кол-во запросов."`
		} `group:"Rate Limiter" namespace:"ratelim" env-namespace:"RATE_LIM"`
	} `group:"Web" namespace:"web" env-namespace:"WEB"`

	Store struct {
		Engine EngineType `long:"engine" env:"ENGINE" value-name:"type" choice:"memory" choice:"bolt" default:"bolt" description:"Тип хранилища исключений."`

		Bolt struct {
			File string `long:"file" env:"FILE" value-name:"path" default:"excl.bolt" description:"Путь к файлу БД."`
		} `group:"Настройки хранилища bolt" namespace:"bolt" env-namespace:"BOLT"`
	} `group:"Хранилище" namespace:"store" env-namespace:"STORE"`

	Source struct {
		Override string `long:"override" env:"OVERRIDE" value-name:"file.yml" description:"Путь к YAML файлу с исключенными днями по годам и месяцам."`
		Exclude  []int  `long:"exclude" env:"EXCLUDE" env-delim:"," value-name:"day" description:"День месяца, исключаемый в каждом месяце. Можно указывать несколько раз."`
	} `group:"Источники исключений" namespace:"source" env-namespace:"SOURCE"`
}

func (s *Server) Execute(args []string) error {
	a, err := s.makeApp()
	if err != nil {
		return err
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		a.shutdown()
	}()

	err = a.run()
	a.wait()
	return err
}

type Store interface {
	FindMonth(y int, mon time.Month) (store.Days, bool)
	FindYear(y int) (store.Months, bool)
	PutYear(y int, data store.Months) error
}

type app struct {
	srv             *rest.Server
	proc            *calendar.Processor
	store           Store
	autoSync        bool
	syncYears       []int
	syncYearsFinish chan struct{}

	stopOnce sync.Once
	stopped  chan struct{}
}

func (s *Server) makeApp() (*app, error) {
	a := &app{
		syncYearsFinish: make(chan struct{}),
		stopped:         make(chan struct{}),
	}

	var syncAt time.Time
	var err error
	if s.SyncAt != "" {
		syncAt, err = parseSyncAt(s.SyncAt)
		if err != nil {
			return nil, fmt.Errorf("sync at: %w", err)
		}
		a.autoSync = true
	}

	syncYears, err := parseYears(s.SyncOnStart)
	if err != nil {
		return nil, fmt.Errorf("sync on start: %w", err)
	}
	a.syncYears = syncYears

	st, err := s.makeStore()
	if err != nil {
		return nil, err
	}
	a.store = st

	a.proc = calendar.NewProcessor(calendar.ProcOpts{
		Src:      s.makeSources(),
		Store:    st,
		UpdateAt: syncAt,
	})

	a.srv = &rest.Server{
		Store:   st,
		Updater: a.proc,
		Opts: rest.Opts{
			Listen:      s.Web.Listen,
			LogRequests: s.Web.AccessLog,
			AdminPasswd: s.Web.AdminPasswd,

			ReadTimeout:       s.Web.ReadTimeout,
			ReadHeaderTimeout: s.Web.ReadHeaderTimeout,
			WriteTimeout:      s.Web.WriteTimeout,
			IdleTimeout:       s.Web.IdleTimeout,

			RateLimiter: s.Web.RateLimiter.ReqLimit > 0,
			ReqLimit:    s.Web.RateLimiter.ReqLimit,
			LimitWindow: s.Web.RateLimiter.LimitWindow,
		},
	}

	return a, nil
}

func (s *Server) makeStore() (Store, error) {
	switch s.Store.Engine {
	case EngineMemory:
		return engine.NewMemory(), nil
	case EngineBolt:
		return engine.NewBolt(s.Store.Bolt.File)
	default:
		return nil, fmt.Errorf("unknown store engine %s", s.Store.Engine)
	}
}

func (s *Server) makeSources() []calendar.Source {
	src := make([]calendar.Source, 0, 2)

	if len(s.Source.Exclude) > 0 {
		src = append(src, &source.Static{Days: s.Source.Exclude})
	}

	if s.Source.Override != "" {
		src = append(src, &source.Override{
			Path: s.Source.Override,
		})
	}

	return src
}

func parseSyncAt(val string) (time.Time, error) {
	if t, err := time.Parse("15:04", val); err == nil {
		return t, nil
	}

	t, err := time.Parse("15:04:05", val)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time '%s', it must match pattern hh:mm[:ss]", val)
	}
	return t, nil
}

func parseYears(vals []string) ([]int, error) {
	if len(vals) == 1 && vals[0] == "none" {
		return nil, nil
	}

	years := make(map[int]bool, len(vals))
	for _, val := range vals {
		switch val {
		case "current":
			years[time.Now().Year()] = true
		case "next":
			years[time.Now().Year()+1] = true
		default:
			y, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("invalid year '%s': %w", val, err)
			}
			if y <= 0 {
				return nil, fmt.Errorf("invalid year %d", y)
			}
			years[y] = true
		}
	}

	ylist := make([]int, 0, len(years))
	for y := range years {
		ylist = append(ylist, y)
	}

	return ylist, nil
}

// run возвращает ошибку запуска веб-сервера. В этом случае приложение уже остановлено.
func (a *app) run() error {
	g, _ := errgroup.WithContext(context.Background())

	if a.autoSync {
		g.Go(func() error {
			a.proc.RunUpdates()
			return nil
		})
	}

	g.Go(func() error {
		syncOnRun(a.proc, a.syncYears, a.syncYearsFinish)
		return nil
	})

	g.Go(func() error {
		if err := a.srv.Run(); err != nil && err != http.ErrServerClosed {
			log.Printf("[ERROR] startup: %v", err)
			// Иначе RunUpdates не завершится и g.Wait будет ждать вечно.
			a.shutdown()
			return fmt.Errorf("startup: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (a *app) shutdown() {
	a.stopOnce.Do(func() {
		defer close(a.stopped)
		log.Printf("[INFO] shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		g, _ := errgroup.WithContext(ctx)

		if a.autoSync {
			g.Go(func() error {
				return a.proc.Shutdown(ctx)
			})
		}
		g.Go(func() error {
			return a.srv.Shutdown(ctx)
		})
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return fmt.Errorf("sync on run: %w", ctx.Err())
			case <-a.syncYearsFinish:
				return nil
			}
		})

		if err := g.Wait(); err != nil {
			log.Printf("[ERROR] app shutdown: %v", err)
		}

		if c, ok := a.store.(io.Closer); ok {
			if err := c.Close(); err != nil {
				log.Printf("[WARN] app shutdown: %v", err)
			}
		}
	})
}

func (a *app) wait() {
	<-a.stopped
}

func syncOnRun(proc *calendar.Processor, years []int, finished chan<- struct{}) {
	for _, y := range years {
		if err := proc.UpdateCalendar(y); err != nil {
			log.Printf("[WARN] sync on run, year %d: %+v", y, err)
		}
	}
	close(finished)
}
