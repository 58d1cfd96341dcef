package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/daybook/internal/domain"
	"github.com/iho/daybook/internal/infrastructure/auth"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeEnvelope(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}))

	expected := "{\n  \"a\": 1\n}\n"
	if buf.String() != expected {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}
}

func TestLedgerAdd_SendsEntry(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/ledger", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		writeEnvelope(w, http.StatusCreated, `{"success":true,"data":{"id":"01A","entry_date":"2024-01-03","particulars":"rent","dr_amount":"200","cr_amount":"0","balance":"800"}}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, "--url", srv.URL, "ledger", "add", "--date", "2024-01-03", "--particulars", "rent", "--dr", "200")
	require.NoError(t, err)

	assert.Equal(t, "2024-01-03", received["entry_date"])
	assert.Equal(t, "200", received["dr_amount"])
	assert.NotContains(t, received, "cr_amount")
	assert.Contains(t, out, "Added 01A on 2024-01-03, balance 800.00")
}

func TestLedgerAdd_RejectsBadAmount(t *testing.T) {
	_, err := runCLI(t, "--url", "http://127.0.0.1:0", "ledger", "add", "--particulars", "x", "--cr", "ten")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cr_amount")
}

func TestLedgerList_Table(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, `{"success":true,"data":[
			{"id":"01A","entry_date":"2024-01-01","particulars":"capital","dr_amount":"0","cr_amount":"1000","balance":"1000"},
			{"id":"01B","entry_date":"2024-01-03","particulars":"rent","dr_amount":"200","cr_amount":"0","balance":"800"}]}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, "--url", srv.URL, "ledger", "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "BALANCE")
	assert.Contains(t, lines[2], "800.00")
}

func TestLedgerDelete_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/ledger/missing", r.URL.Path)
		writeEnvelope(w, http.StatusNotFound, `{"success":false,"error":"ledger entry not found"}`)
	}))
	defer srv.Close()

	_, err := runCLI(t, "--url", srv.URL, "ledger", "delete", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger entry not found (status 404)")
}

func TestLedgerConsistency(t *testing.T) {
	consistent := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if consistent {
			writeEnvelope(w, http.StatusOK, `{"success":true,"data":{"consistent":true,"totalEntries":2,"recordedBalance":"800"}}`)
			return
		}
		writeEnvelope(w, http.StatusConflict, `{"success":false,"data":{"consistent":false,"problem":"entry 01B is stale"}}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, "--url", srv.URL, "ledger", "consistency")
	require.NoError(t, err)
	assert.Contains(t, out, "PASSED")

	consistent = false
	out, err = runCLI(t, "--url", srv.URL, "ledger", "consistency")
	require.Error(t, err)
	assert.Contains(t, out, "entry 01B is stale")
}

func TestReport_PassesPeriodQuery(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		writeEnvelope(w, http.StatusOK, `{"success":true,"data":{"date":"2024-01-03","opening":"1000","closing":"800"}}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, "--url", srv.URL, "report", "--period", "custom", "--start", "2024-01-01", "--end", "2024-01-03", "--date", "2024-01-03")
	require.NoError(t, err)

	assert.Contains(t, query, "period=custom")
	assert.Contains(t, query, "start=2024-01-01")
	assert.Contains(t, query, "end=2024-01-03")
	assert.Contains(t, out, "Closing:")
}

func TestToken_IssuesVerifiableToken(t *testing.T) {
	out, err := runCLI(t, "token", "--secret", "s3cret", "--role", "operator")
	require.NoError(t, err)

	claims, err := auth.NewJWTManager("s3cret", time.Minute).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOperator, claims.Role)
}

func TestClient_SendsBearerToken(t *testing.T) {
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, `{"success":true,"data":{"totalEntries":0,"totalDr":"0","totalCr":"0","currentBalance":"0"}}`)
	}))
	defer srv.Close()

	_, err := runCLI(t, "--url", srv.URL, "--token", "abc", "ledger", "summary")
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", header)
}
