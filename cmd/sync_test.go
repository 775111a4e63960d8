package cmd

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncCmd(t *testing.T) {
	_, a, port := newApp(t, func(cmd *Server) {
		cmd.Source.Override = "testdata/override.yml"
	})
	go a.run()
	defer a.shutdown()
	waitForHTTP(port)

	status, _ := getBody(t, fmt.Sprintf("http://127.0.0.1:%d/api/exclusions/2021", port))
	assert.Equal(t, 404, status)

	cmd := newSyncCmd(port, "pass", []int{2021, 2022})
	err := cmd.Execute([]string{})
	require.NoError(t, err)

	// После синхронизации исключения доступны.
	status, json := getBody(t, fmt.Sprintf("http://127.0.0.1:%d/api/exclusions/2021/2", port))
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `[22, 23]`, json)

	status, json = getBody(t, fmt.Sprintf("http://127.0.0.1:%d/api/workday/2021/2/16?holidays=true", port))
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"date": "2021-02-24", "weekDay": "wed", "nth": 16}`, json)
}

func TestSyncCmd_unauthorized(t *testing.T) {
	_, a, port := newApp(t, nil)
	go a.run()
	defer a.shutdown()
	waitForHTTP(port)

	cmd := newSyncCmd(port, "wrong", []int{2021})
	err := cmd.Execute([]string{})
	assert.ErrorContains(t, err, "status 401")
}

func newSyncCmd(port int, passwd string, y []int) *Sync {
	return &Sync{
		ServerUrl:   fmt.Sprintf("http://127.0.0.1:%d", port),
		AdminPasswd: passwd,
		Timeout:     60 * time.Second,
		Years:       y,
	}
}
