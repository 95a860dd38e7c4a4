package actions

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ScreenshotDir is the folder under the report directory that holds screenshots.
const ScreenshotDir = "screenshots"

var (
	whitespace  = regexp.MustCompile(`\s+`)
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// maxNameLength keeps screenshot names well under file system limits.
const maxNameLength = 120

// SanitizeName turns a step description into a file-name fragment.
func SanitizeName(name string) string {
	name = whitespace.ReplaceAllString(strings.TrimSpace(name), "_")
	name = unsafeChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-_")
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}
	if name == "" {
		name = "screenshot"
	}
	return name
}

// TakeScreenshot captures a full-page screenshot into <dir>/screenshots and
// returns the file path.
func TakeScreenshot(page playwright.Page, dir, name string) (string, error) {
	if dir == "" {
		dir = "."
	}
	shots := filepath.Join(dir, ScreenshotDir)
	if err := os.MkdirAll(shots, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	path := filepath.Join(shots, fmt.Sprintf("%s_%d.png", SanitizeName(name), time.Now().UnixNano()))
	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("screenshot failed: %w", err)
	}
	return path, nil
}
