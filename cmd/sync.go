package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nvkalinin/workday-locator/log"
)

type Sync struct {
	ServerUrl   string        `long:"server-url" short:"s" env:"SERVER_URL" value-name:"str" default:"http://localhost" description:"URL сервера с REST API."`
	AdminPasswd string        `long:"passwd" short:"p" env:"WEB_ADMIN_PASSWD" value-name:"str" description:"Пароль пользователя admin."`
	Timeout     time.Duration `long:"timeout" short:"t" env:"TIMEOUT" value-name:"duration" default:"60s" description:"Макс. время выполнения запроса."`
	Years       []int         `long:"year" short:"y" env:"YEAR" env-delim:"," value-name:"int" required:"true" description:"Год, за который нужно перечитать исключения. Можно указывать несколько раз."`
}

func (s *Sync) Execute(args []string) error {
	ystr := make([]string, len(s.Years))
	for i, y := range s.Years {
		ystr[i] = strconv.Itoa(y)
	}

	params := url.Values{"y": ystr}
	body := strings.NewReader(params.Encode())

	url := makeUrl(s.ServerUrl, "/api/admin/sync")
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("cannot make request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("admin", s.AdminPasswd)
	log.Printf("[DEBUG] sync request: URL=%s, years=%v", url, s.Years)

	client := &http.Client{
		Timeout: s.Timeout,
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("[WARN] cannot close response: %v", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("cannot read response: %w", err)
	}
	log.Printf("[DEBUG] sync response: status=%d body=%s", resp.StatusCode, respBody)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sync error (status %d): %w", resp.StatusCode, readJsonError(respBody))
	}

	res := map[int]string{}
	if err := json.Unmarshal(respBody, &res); err != nil {
		return fmt.Errorf("cannot parse response (status %d): %w", resp.StatusCode, err)
	}

	years := make([]int, 0, len(res))
	for y := range res {
		years = append(years, y)
	}
	sort.Ints(years)

	failed := 0
	for _, y := range years {
		if res[y] == "ok" {
			log.Printf("[INFO] year %d: ok", y)
		} else {
			log.Printf("[ERROR] year %d: %s", y, res[y])
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("cannot sync %d year(s)", failed)
	}
	return nil
}
