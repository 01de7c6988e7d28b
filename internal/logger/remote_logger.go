package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"storefront/internal/utils"
)

// lokiPush is the body of a Loki (or Alloy) push request.
type lokiPush struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

var remoteClient = &http.Client{Timeout: 5 * time.Second}

func jobName() string {
	if name := os.Getenv("APP_NAME"); name != "" {
		return name
	}
	return "storefront"
}

// newLokiPush wraps one record in a single-stream push. Labels stay
// low-cardinality; attributes go into the JSON line.
func newLokiPush(level, message string, attrs []slog.Attr, now time.Time) lokiPush {
	line := make(map[string]any, len(attrs)+3)
	line["level"] = level
	line["message"] = message
	line["time"] = now.Format(time.RFC3339)
	for _, a := range attrs {
		line[a.Key] = redactAttr(a)
	}
	b, _ := json.Marshal(line)

	return lokiPush{Streams: []lokiStream{{
		Stream: map[string]string{
			"job":   jobName(),
			"level": level,
			"host":  utils.GetHost(),
		},
		Values: [][2]string{{strconv.FormatInt(now.UnixNano(), 10), string(b)}},
	}}}
}

func redactAttr(a slog.Attr) any {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindString {
		return redactKey(a.Key, v.String())
	}
	return v.Any()
}

func pushLog(ctx context.Context, uri string, body lokiPush) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := remoteClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("push rejected with status %d", resp.StatusCode)
	}
	return nil
}

// sendLog ships a record in the background when REMOTE_LOG_HTTP_URI is set.
// Failures go to stderr so they never loop back into the logger.
func sendLog(level, message string, attrs []slog.Attr) {
	uri := os.Getenv("REMOTE_LOG_HTTP_URI")
	if uri == "" {
		return
	}
	body := newLokiPush(level, message, attrs, time.Now())
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteClient.Timeout)
		defer cancel()
		if err := pushLog(ctx, uri, body); err != nil {
			fmt.Fprintf(os.Stderr, "remote log: %v\n", err)
		}
	}()
}
