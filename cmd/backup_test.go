package cmd

import (
	"compress/gzip"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupCmd(t *testing.T) {
	dir := t.TempDir()
	_, a, port := newApp(t, func(cmd *Server) {
		cmd.Store.Engine = EngineBolt
		cmd.Store.Bolt.File = dir + "/excl.bolt"
		cmd.SyncOnStart = []string{"2021"}
		cmd.Source.Override = "testdata/override.yml"
	})
	go a.run()
	defer a.shutdown()
	waitForHTTP(port)

	out := dir + "/backup.bolt.gz"
	cmd := &Backup{
		ServerUrl:   fmt.Sprintf("http://127.0.0.1:%d", port),
		AdminPasswd: "pass",
		OutFile:     out,
		Timeout:     60 * time.Second,
	}
	err := cmd.Execute(nil)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	_, err = gzip.NewReader(f)
	assert.NoError(t, err)
}

func TestBackupCmd_memory(t *testing.T) {
	_, a, port := newApp(t, nil)
	go a.run()
	defer a.shutdown()
	waitForHTTP(port)

	cmd := &Backup{
		ServerUrl:   fmt.Sprintf("http://127.0.0.1:%d", port),
		AdminPasswd: "pass",
		OutFile:     t.TempDir() + "/backup.bolt.gz",
		Timeout:     60 * time.Second,
	}
	err := cmd.Execute(nil)
	assert.ErrorContains(t, err, "store does not support backups")
}

func TestBackup_filename(t *testing.T) {
	b := &Backup{}
	resp := &http.Response{Header: http.Header{}}

	def := fmt.Sprintf("excl_%s.bolt.gz", time.Now().Format("2006-01-02"))
	assert.Equal(t, def, b.filename(resp))

	resp.Header.Set("Content-Disposition", `attachment; filename="excl_2022-01-01.bolt.gz"`)
	assert.Equal(t, "excl_2022-01-01.bolt.gz", b.filename(resp))

	resp.Header.Set("Content-Disposition", `attachment; filename="../../etc/passwd"`)
	assert.Equal(t, "passwd", b.filename(resp))

	resp.Header.Set("Content-Disposition", `attachment`)
	assert.Equal(t, def, b.filename(resp))

	b.OutFile = "my.gz"
	assert.Equal(t, "my.gz", b.filename(resp))
}

func TestBackupCmd_truncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("only a part"))
	}))
	defer srv.Close()

	out := t.TempDir() + "/backup.bolt.gz"
	cmd := &Backup{
		ServerUrl:   srv.URL,
		AdminPasswd: "pass",
		OutFile:     out,
		Timeout:     10 * time.Second,
	}
	err := cmd.Execute(nil)
	assert.ErrorContains(t, err, "cannot save backup")

	// Недокачанный файл удаляется.
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}
