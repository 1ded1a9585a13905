package battle

import (
	"fmt"
	"path/filepath"
	"runtime"

	perrors "github.com/protologic/cargo-protologic/internal/errors"
)

// Platform is an operating system family with its own Protologic release layout.
type Platform int

// Platforms with a Protologic build.
const (
	PlatformOther Platform = iota
	PlatformWindows
	PlatformLinux
)

// String returns the platform name.
func (p Platform) String() string {
	switch p {
	case PlatformWindows:
		return "windows"
	case PlatformLinux:
		return "linux"
	default:
		return "other"
	}
}

// PlatformFor maps a GOOS value to a Platform.
func PlatformFor(goos string) Platform {
	switch goos {
	case "windows":
		return PlatformWindows
	case "linux":
		return PlatformLinux
	default:
		return PlatformOther
	}
}

// CurrentPlatform returns the platform cargo-protologic is running on.
func CurrentPlatform() Platform {
	return PlatformFor(runtime.GOOS)
}

// Locator finds the simulator and player executables.
type Locator interface {
	// Simulator returns the simulator executable path.
	Simulator() (string, error)
	// Player returns the replay player executable path.
	Player() (string, error)
}

// ReleaseLocator resolves executables inside an unpacked Protologic release.
type ReleaseLocator struct {
	root     string
	platform Platform
}

// NewReleaseLocator creates a locator for the release at root.
// The platform is fixed at construction; unsupported combinations only fail when
// the missing executable is asked for.
func NewReleaseLocator(root string, platform Platform) *ReleaseLocator {
	return &ReleaseLocator{root: root, platform: platform}
}

// Simulator returns Sim/<OS>/Protologic.Terminal[.exe].
func (l *ReleaseLocator) Simulator() (string, error) {
	if l.root == "" {
		return "", perrors.ErrProtologicPathRequired
	}

	switch l.platform {
	case PlatformWindows:
		return filepath.Join(l.root, "Sim", "Windows", "Protologic.Terminal.exe"), nil
	case PlatformLinux:
		return filepath.Join(l.root, "Sim", "Linux", "Protologic.Terminal"), nil
	default:
		return "", fmt.Errorf("no simulator build for %s: %w", runtime.GOOS, perrors.ErrUnsupportedPlatform)
	}
}

// Player returns Player/Windows/PROTOLOGIC.exe. The player is only released for Windows.
func (l *ReleaseLocator) Player() (string, error) {
	if l.root == "" {
		return "", perrors.ErrProtologicPathRequired
	}

	if l.platform == PlatformWindows {
		return filepath.Join(l.root, "Player", "Windows", "PROTOLOGIC.exe"), nil
	}
	return "", fmt.Errorf("no player build for %s: %w", l.platform, perrors.ErrUnsupportedPlatform)
}

var _ Locator = (*ReleaseLocator)(nil)
