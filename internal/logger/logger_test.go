package logger

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
)

func attrMap(attrs []slog.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value.String()
	}
	return m
}

func TestLogHTTPRequestRedactsSecrets(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/session?x=1", strings.NewReader(`{"secret":"123","name":"Blusa"}`))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", "Bearer abc")

	got := attrMap(LogHTTPRequest(r.Context(), r, "incoming::request"))

	if got["http.body.secret"] != "***" {
		t.Errorf("secret not redacted: %q", got["http.body.secret"])
	}
	if got["http.body.name"] != "Blusa" {
		t.Errorf("name = %q", got["http.body.name"])
	}
	if got["http.header.authorization"] != "***" {
		t.Errorf("authorization not redacted: %q", got["http.header.authorization"])
	}
	if got["http.query.x"] != "1" {
		t.Errorf("query = %q", got["http.query.x"])
	}

	// the body must still be readable downstream
	body, err := io.ReadAll(r.Body)
	if err != nil || !strings.Contains(string(body), "Blusa") {
		t.Fatalf("body not restored: %q %v", body, err)
	}
}

func TestDecodeBodyBinary(t *testing.T) {
	attrs, err := DecodeBody("application/octet-stream", []byte{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if got := attrMap(attrs)["http.body.base64"]; got != "AQID" {
		t.Fatalf("base64 = %q", got)
	}
}

func TestLogGRPCRequest(t *testing.T) {
	md := metadata.Pairs("authorization", "Bearer abc", "x-ignored", "v")
	req := struct {
		ID string `json:"id"`
	}{ID: "7"}

	got := attrMap(LogGRPCRequest("/storefront.Catalog/Get", md, req, "incoming"))
	if got["grpc.request.id"] != "7" {
		t.Errorf("request id = %q", got["grpc.request.id"])
	}
	if got["grpc.header.authorization"] != "***" {
		t.Errorf("authorization = %q", got["grpc.header.authorization"])
	}
	if _, ok := got["grpc.header.x-ignored"]; ok {
		t.Error("unexpected header logged")
	}

	if got["grpc.service"] != "storefront.Catalog" || got["grpc.method"] != "Get" {
		t.Errorf("method split = %q %q", got["grpc.service"], got["grpc.method"])
	}

	if attrs := LogGRPCRequest("/storefront.Catalog/List", nil, &emptypb.Empty{}, "incoming"); len(attrs) != 3 {
		t.Errorf("empty message should add no attrs, got %v", attrs)
	}
}

func TestLogGRPCResponseRedactsToken(t *testing.T) {
	resp := struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expiresAt"`
	}{Token: "eyJhbGciOi", ExpiresAt: "2026-01-01T00:00:00Z"}

	got := attrMap(LogGRPCResponse("/storefront.Catalog/Session", 0, resp, 3*time.Millisecond, "incoming::response"))
	if got["grpc.response.token"] != "***" {
		t.Errorf("token not redacted: %q", got["grpc.response.token"])
	}
	if got["grpc.code"] != "OK" || got["grpc.response.expiresAt"] != "2026-01-01T00:00:00Z" {
		t.Errorf("unexpected attrs %v", got)
	}
}

func TestNewLokiPush(t *testing.T) {
	t.Setenv("APP_NAME", "paty-modas")
	now := time.Unix(1700000000, 42)

	push := newLokiPush("warn", "Catalog unreadable", []slog.Attr{
		slog.String("secret", "123"),
		slog.String("http.body.password", "abc"),
		slog.String("path", "products.json"),
		slog.Int("count", 2),
	}, now)

	if len(push.Streams) != 1 {
		t.Fatalf("streams = %d", len(push.Streams))
	}
	stream := push.Streams[0]
	if stream.Stream["job"] != "paty-modas" || stream.Stream["level"] != "warn" || stream.Stream["host"] == "" {
		t.Fatalf("labels = %v", stream.Stream)
	}
	if stream.Values[0][0] != "1700000000000000042" {
		t.Fatalf("timestamp = %s", stream.Values[0][0])
	}

	var line map[string]any
	if err := json.Unmarshal([]byte(stream.Values[0][1]), &line); err != nil {
		t.Fatal(err)
	}
	if line["secret"] != "***" || line["http.body.password"] != "***" {
		t.Errorf("credentials leaked: %v", line)
	}
	if line["path"] != "products.json" || line["count"] != float64(2) || line["message"] != "Catalog unreadable" {
		t.Errorf("unexpected line %v", line)
	}
}

func TestPushLog(t *testing.T) {
	var received lokiPush
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode push: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	push := newLokiPush("info", "Product created", []slog.Attr{slog.String("id", "7")}, time.Now())
	if err := pushLog(context.Background(), srv.URL, push); err != nil {
		t.Fatal(err)
	}
	if len(received.Streams) != 1 || !strings.Contains(received.Streams[0].Values[0][1], `"id":"7"`) {
		t.Fatalf("received %+v", received)
	}

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer failing.Close()
	if err := pushLog(context.Background(), failing.URL, push); err == nil {
		t.Fatal("expected error for rejected push")
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("DEBUG") != slog.LevelDebug || parseLevel("") != slog.LevelInfo || parseLevel("warning") != slog.LevelWarn {
		t.Fatal("unexpected level mapping")
	}
}
