package fpgakit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// installPackage downloads, verifies and unpacks one package release
// from the mirror, then records the installed version in the profile.
func installPackage(cfg *Config, name string) error {
	desc, ok := packageTable[name]
	if !ok {
		return fmt.Errorf("unknown package: %s", name)
	}

	index, err := fetchMirrorIndex(mirrorURL)
	if err != nil {
		return err
	}
	entry, ok := index.Packages[name]
	if !ok {
		return fmt.Errorf("mirror %s does not serve package '%s'", mirrorURL, name)
	}

	platform := platformString()
	file, ok := entry.Files[platform]
	if !ok {
		return fmt.Errorf("package '%s' %s has no build for %s", name, entry.Version, platform)
	}
	url := strings.Join([]string{mirrorURL, name, file}, "/")

	cacheDir := filepath.Join(homeDir(cfg), "cache")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", cacheDir, err)
	}

	colArrow.Print("-> ")
	colSuccess.Printf("Installing %s %s (%s)\n", name, entry.Version, platform)

	archivePath := filepath.Join(cacheDir, file)
	err = withDownloadLock(archivePath, func() error {
		dl, err := newDownloader(url, cacheDir)
		if err != nil {
			return err
		}
		defer dl.close()

		if err := dl.start(); err != nil {
			// Drop the partial file so a corrupt archive never sits in
			// the cache.
			os.Remove(dl.filePath())
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}

	if sum, ok := entry.Checksums[file]; ok {
		if err := verifyChecksum(archivePath, sum); err != nil {
			os.Remove(archivePath)
			return err
		}
	} else {
		colWarn.Printf("Warning: mirror declares no checksum for %s\n", file)
	}

	pkgDir := filepath.Join(packagesRoot(cfg), desc.Folder)
	if err := os.RemoveAll(pkgDir); err != nil {
		return fmt.Errorf("failed to remove previous install %s: %w", pkgDir, err)
	}
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create package directory %s: %w", pkgDir, err)
	}
	if err := extractArchive(archivePath, pkgDir); err != nil {
		os.RemoveAll(pkgDir)
		return err
	}

	profile, err := loadProfile(cfg)
	if err != nil {
		return err
	}
	profile.Packages[name] = profilePackage{Version: entry.Version}
	if err := profile.save(); err != nil {
		return err
	}

	colSuccess.Printf("Package '%s' has been successfully installed!\n", name)
	return nil
}

// uninstallPackage removes a package's installation directory and its
// profile record.
func uninstallPackage(cfg *Config, name string) error {
	desc, ok := packageTable[name]
	if !ok {
		return fmt.Errorf("unknown package: %s", name)
	}

	dir := packageDir(cfg, desc.Folder)
	if dir == "" {
		return fmt.Errorf("package '%s' is not installed", name)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}

	profile, err := loadProfile(cfg)
	if err != nil {
		return err
	}
	delete(profile.Packages, name)
	if err := profile.save(); err != nil {
		return err
	}

	colSuccess.Printf("Package '%s' has been successfully uninstalled!\n", name)
	return nil
}
