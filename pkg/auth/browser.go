package auth

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all" // Import all browser cookie stores
	"github.com/browserutils/kooky/browser/firefox"
)

// firefoxProfileDirs are Firefox-family profile roots relative to $HOME.
// kooky does not discover all of them on its own.
var firefoxProfileDirs = []string{
	filepath.Join("Library", "Application Support", "Firefox", "Profiles"),
	filepath.Join("Library", "Application Support", "zen", "Profiles"),
	filepath.Join(".mozilla", "firefox"),
}

// BrowserSource reads cookies from local browser cookie stores.
type BrowserSource struct {
	logger *slog.Logger
	home   string
}

// NewBrowserSource creates a new browser cookie source.
func NewBrowserSource(logger *slog.Logger) *BrowserSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &BrowserSource{logger: logger, home: os.Getenv("HOME")}
}

// Cookies returns cookies for the given platform from browser stores.
// Read failures are logged and reported as no cookies.
func (s *BrowserSource) Cookies(ctx context.Context, platform string) (map[string]string, error) {
	sess, ok := sessions[platform]
	if !ok {
		return nil, nil //nolint:nilnil // no cookies for unknown platform is not an error
	}

	domain := sess.domain
	s.logger.DebugContext(ctx, "reading browser cookies", "platform", platform, "domain", domain)

	if cookies := s.tryFirefoxProfiles(ctx, domain, platform); len(cookies) > 0 {
		return cookies, nil
	}

	kookies, err := kooky.ReadCookies(ctx, kooky.Valid, kooky.DomainHasSuffix(domain))
	if err != nil {
		s.logger.DebugContext(ctx, "failed to read browser cookies", "platform", platform, "error", err)
		return nil, nil //nolint:nilnil // failed browser read is not a fatal error
	}
	if len(kookies) == 0 {
		return nil, nil //nolint:nilnil // no browser cookies is not an error
	}
	return s.filterEssentialCookies(ctx, kookies, platform), nil
}

func (s *BrowserSource) tryFirefoxProfiles(ctx context.Context, domain, platform string) map[string]string {
	if s.home == "" {
		return nil
	}
	for _, dir := range firefoxProfileDirs {
		matches, err := filepath.Glob(filepath.Join(s.home, dir, "*", "cookies.sqlite"))
		if err != nil {
			continue
		}
		for _, f := range matches {
			kookies, err := firefox.ReadCookies(ctx, f, kooky.Valid, kooky.DomainHasSuffix(domain))
			if err != nil {
				s.logger.DebugContext(ctx, "failed to read Firefox cookies",
					"profile", filepath.Base(filepath.Dir(f)), "platform", platform, "error", err)
				continue
			}
			if len(kookies) > 0 {
				s.logger.DebugContext(ctx, "found Firefox cookies",
					"profile", filepath.Base(filepath.Dir(f)), "platform", platform, "count", len(kookies))
				return s.filterEssentialCookies(ctx, kookies, platform)
			}
		}
	}
	return nil
}

// filterEssentialCookies keeps only the cookies the platform needs.
func (s *BrowserSource) filterEssentialCookies(ctx context.Context, kookies []*kooky.Cookie, platform string) map[string]string {
	names := cookieNames(platform)
	want := make(map[string]bool, len(names))
	for _, name := range names {
		want[name] = true
	}

	cookies := make(map[string]string)
	for _, c := range kookies {
		if want[c.Name] {
			cookies[c.Name] = c.Value
		}
	}

	var missing []string
	for _, name := range names {
		if _, ok := cookies[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		s.logger.InfoContext(ctx, "browser cookies missing", "platform", platform, "keys", missing)
	}
	return cookies
}
