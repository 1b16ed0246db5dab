package context

import "context"

type ContextKey string

var (
	RequestIDKey = ContextKey("X-Request-Id")
	MethodKey    = ContextKey("X-Method")
	RouteKey     = ContextKey("X-Route")
	RemoteIPKey  = ContextKey("X-Remote-Ip")
	RefererKey   = ContextKey("X-Referer")
	EditorIDKey  = ContextKey("X-Editor-Id")
)

func set(ctx context.Context, key ContextKey, value string) context.Context {
	return context.WithValue(ctx, key, value)
}

func get(ctx context.Context, key ContextKey) string {
	value, ok := ctx.Value(key).(string)
	if !ok {
		return ""
	}
	return value
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return set(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string { return get(ctx, RequestIDKey) }

func SetMethod(ctx context.Context, method string) context.Context {
	return set(ctx, MethodKey, method)
}

func GetMethod(ctx context.Context) string { return get(ctx, MethodKey) }

func SetRoute(ctx context.Context, route string) context.Context {
	return set(ctx, RouteKey, route)
}

func GetRoute(ctx context.Context) string { return get(ctx, RouteKey) }

func SetRemoteIP(ctx context.Context, remoteIP string) context.Context {
	return set(ctx, RemoteIPKey, remoteIP)
}

func GetRemoteIP(ctx context.Context) string { return get(ctx, RemoteIPKey) }

func SetReferer(ctx context.Context, referer string) context.Context {
	return set(ctx, RefererKey, referer)
}

func GetReferer(ctx context.Context) string { return get(ctx, RefererKey) }

// SetEditorID records the editor session a request operates on.
func SetEditorID(ctx context.Context, editorID string) context.Context {
	return set(ctx, EditorIDKey, editorID)
}

func GetEditorID(ctx context.Context) string { return get(ctx, EditorIDKey) }

// LogFields returns the request-scoped values worth attaching to a log line.
func LogFields(ctx context.Context) map[string]any {
	fields := map[string]any{}
	for _, key := range []ContextKey{RequestIDKey, RouteKey, EditorIDKey} {
		if v := get(ctx, key); v != "" {
			fields[string(key)] = v
		}
	}
	return fields
}
