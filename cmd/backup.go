package cmd

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/nvkalinin/workday-locator/log"
)

type Backup struct {
	ServerUrl   string        `long:"server-url" short:"s" env:"SERVER_URL" default:"http://localhost" description:"URL сервера с REST API."`
	AdminPasswd string        `long:"passwd" short:"p" env:"WEB_ADMIN_PASSWD" description:"Пароль пользователя admin."`
	OutFile     string        `long:"out" short:"o" env:"OUT" description:"Путь к файлу, куда сохранить бекап. По умолчанию: имя из ответа сервера или excl_YYYY-MM-DD.bolt.gz"`
	Timeout     time.Duration `long:"timeout" short:"t" env:"TIMEOUT" default:"600s" description:"Макс. время выполнения запроса."`
}

func (b *Backup) Execute(args []string) error {
	req, err := http.NewRequest(http.MethodGet, makeUrl(b.ServerUrl, "/api/admin/backup"), http.NoBody)
	if err != nil {
		return fmt.Errorf("cannot create request: %w", err)
	}
	req.SetBasicAuth("admin", b.AdminPasswd)

	client := &http.Client{Timeout: b.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("[WARN] cannot close resp body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("cannot read err response (status %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("backup error (status %d): %w", resp.StatusCode, readJsonError(respBody))
	}

	fname := b.filename(resp)
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", fname, err)
	}

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		_ = f.Close()
		if rmErr := os.Remove(fname); rmErr != nil {
			log.Printf("[WARN] cannot remove incomplete backup %s: %v", fname, rmErr)
		}
		return fmt.Errorf("cannot save backup to %s: %w", fname, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot close %s: %w", fname, err)
	}
	log.Printf("[INFO] backup saved to %s (%d bytes)", fname, n)

	return nil
}

func (b *Backup) filename(resp *http.Response) string {
	if len(b.OutFile) > 0 {
		return b.OutFile
	}

	defName := fmt.Sprintf("excl_%s.bolt.gz", time.Now().Format("2006-01-02"))

	val := resp.Header.Get("Content-Disposition")
	if val == "" {
		return defName
	}

	_, params, err := mime.ParseMediaType(val)
	if err != nil {
		return defName
	}

	// Сохраняем только в текущий каталог, даже если сервер прислал путь.
	name := filepath.Base(params["filename"])
	if name == "." || name == "/" || name == ".." {
		return defName
	}

	return name
}
