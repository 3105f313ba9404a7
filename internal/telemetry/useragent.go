package telemetry

import (
	"context"
	"maps"
	"strings"

	"github.com/mssola/useragent"

	"authflow/pkg/requestcontext"
)

// DeviceTags derives coarse device tags from a User-Agent header.
func DeviceTags(userAgent string) map[string]string {
	if userAgent == "" {
		return nil
	}
	ua := useragent.New(userAgent)
	browser, version := ua.Browser()
	if major, _, ok := strings.Cut(version, "."); ok {
		version = major
	}

	platform := "desktop"
	switch {
	case ua.Bot():
		platform = "bot"
	case ua.Mobile():
		platform = "mobile"
	}

	return map[string]string{
		"browser":         normalizeTag(browser),
		"browser_version": normalizeTag(version),
		"os":              normalizeTag(ua.OS()),
		"platform":        platform,
	}
}

func normalizeTag(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "unknown"
	}
	return v
}

// WithDeviceTags adds DeviceTags of the request's User-Agent to every event
// before passing it to next. Tags already set on the event win.
func WithDeviceTags(next Recorder) Recorder {
	return RecorderFunc(func(ctx context.Context, e Event) {
		device := DeviceTags(requestcontext.UserAgent(ctx))
		if len(device) > 0 {
			tags := make(map[string]string, len(device)+len(e.Tags))
			maps.Copy(tags, device)
			maps.Copy(tags, e.Tags)
			e.Tags = tags
		}
		next.Record(ctx, e)
	})
}
