package logger

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
)

var loggedMetadata = []string{"authorization", "x-trace-id", "traceparent", "user-agent"}

func metadataAttrs(md metadata.MD) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(loggedMetadata))
	for _, key := range loggedMetadata {
		vs := md.Get(key)
		if len(vs) == 0 {
			continue
		}
		v := strings.Join(vs, ", ")
		if key == "authorization" {
			v = "***"
		}
		attrs = append(attrs, slog.String("grpc.header."+key, v))
	}
	return attrs
}

// messageAttrs flattens a catalog message through its JSON form, the same
// way an HTTP body is logged. emptypb.Empty yields nothing.
func messageAttrs(prefix string, m any) []slog.Attr {
	if m == nil {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return []slog.Attr{slog.String(prefix+".error", err.Error())}
	}
	var data any
	if err := json.Unmarshal(b, &data); err != nil {
		return nil
	}
	attrs := make([]slog.Attr, 0, 8)
	flattenJSON(prefix, data, &attrs)
	return attrs
}

func methodAttrs(fullMethod, direction string) []slog.Attr {
	service, method, _ := strings.Cut(strings.TrimPrefix(fullMethod, "/"), "/")
	return []slog.Attr{
		slog.String("grpc.direction", direction),
		slog.String("grpc.service", service),
		slog.String("grpc.method", method),
	}
}

// LogGRPCRequest builds attributes for a catalog call as it arrives.
func LogGRPCRequest(fullMethod string, md metadata.MD, req any, direction string) []slog.Attr {
	attrs := methodAttrs(fullMethod, direction)
	attrs = append(attrs, metadataAttrs(md)...)
	return append(attrs, messageAttrs("grpc.request", req)...)
}

// LogGRPCResponse builds attributes for the reply, including the status code.
func LogGRPCResponse(fullMethod string, code codes.Code, resp any, duration time.Duration, direction string) []slog.Attr {
	attrs := methodAttrs(fullMethod, direction)
	attrs = append(attrs,
		slog.String("grpc.code", code.String()),
		slog.Int64("grpc.duration_ms", duration.Milliseconds()),
	)
	return append(attrs, messageAttrs("grpc.response", resp)...)
}
