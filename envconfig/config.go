// config.go - Haupt-Konfigurationsfunktionen fuer den Product-Matcher
//
// Dieses Modul enthaelt:
// - Host: Gibt Scheme und Host zurueck (PRODMATCH_HOST)
// - AllowedOrigins: Gibt erlaubte CORS-Origins zurueck (PRODMATCH_ORIGINS)
// - Catalog: Pfad zur Produktdatei (PRODMATCH_CATALOG)
// - Model: Modell-Pfad bzw. Modell-Name (PRODMATCH_MODEL)
// - FetchTimeout: Timeout fuer Bild-Downloads (PRODMATCH_FETCH_TIMEOUT)
// - LogLevel: Gibt Log-Level zurueck (PRODMATCH_DEBUG)
//
// Weitere Konfigurationen sind ausgelagert:
// - config_features.go: Matching-Parameter und Varianten-Schalter
// - config_utils.go: Utility-Funktionen und AsMap/Values
package envconfig

import (
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Host gibt Scheme und Host zurueck
// Konfigurierbar via PRODMATCH_HOST
// Default: http://0.0.0.0:5000
func Host() *url.URL {
	defaultPort := "5000"

	s := strings.TrimSpace(Var("PRODMATCH_HOST"))
	scheme, hostport, ok := strings.Cut(s, "://")
	switch {
	case !ok:
		scheme, hostport = "http", s
	case scheme == "http":
		defaultPort = "80"
	case scheme == "https":
		defaultPort = "443"
	}

	hostport, path, _ := strings.Cut(hostport, "/")
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		host, port = "0.0.0.0", defaultPort
		if ip := net.ParseIP(strings.Trim(hostport, "[]")); ip != nil {
			host = ip.String()
		} else if hostport != "" {
			host = hostport
		}
	}

	if n, err := strconv.ParseInt(port, 10, 32); err != nil || n > 65535 || n < 0 {
		slog.Warn("invalid port, using default", "port", port, "default", defaultPort)
		port = defaultPort
	}

	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, port),
		Path:   path,
	}
}

// AllowedOrigins gibt erlaubte CORS-Origins zurueck
// Konfigurierbar via PRODMATCH_ORIGINS (komma-separiert)
// Leere Liste bedeutet: alle Origins erlaubt
func AllowedOrigins() (origins []string) {
	s := Var("PRODMATCH_ORIGINS")
	if s == "" {
		return nil
	}

	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return origins
}

// Catalog gibt den Pfad zur Produktdatei zurueck
// Konfigurierbar via PRODMATCH_CATALOG
// Default: products.json im Arbeitsverzeichnis
func Catalog() string {
	if s := Var("PRODMATCH_CATALOG"); s != "" {
		return s
	}

	return "products.json"
}

// Model gibt den Modell-Pfad (onnx) bzw. Modell-Namen (remote) zurueck
// Konfigurierbar via PRODMATCH_MODEL
// Default: $HOME/.prodmatch/models/clip-vit-b-32-vision.onnx
func Model() string {
	if s := Var("PRODMATCH_MODEL"); s != "" {
		return s
	}

	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	return filepath.Join(home, ".prodmatch", "models", "clip-vit-b-32-vision.onnx")
}

// FetchTimeout gibt das Timeout fuer Bild-Downloads zurueck
// Konfigurierbar via PRODMATCH_FETCH_TIMEOUT (Dauer oder Sekunden)
// 0 oder negative Werte = kein Timeout
// Default: 30 Sekunden
func FetchTimeout() (timeout time.Duration) {
	timeout = 30 * time.Second
	if s := Var("PRODMATCH_FETCH_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			timeout = d
		} else if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			timeout = time.Duration(n) * time.Second
		} else {
			slog.Warn("invalid environment variable, using default", "key", "PRODMATCH_FETCH_TIMEOUT", "value", s, "default", timeout)
		}
	}

	if timeout < 0 {
		return 0
	}

	return timeout
}

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via PRODMATCH_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("PRODMATCH_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
