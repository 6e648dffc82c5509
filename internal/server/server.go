// internal/server/server.go
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"litnav/internal/builder"
	"litnav/internal/nav"
)

// NavPath is where the rendered navigation is served.
const NavPath = "/_nav/"

const debounceDuration = 500 * time.Millisecond

// BuildFunc resolves the navigation and reports the number of pages found.
type BuildFunc func() (nav.Nav, int, error)

// Options configure the preview server.
type Options struct {
	Port       int
	DocsDir    string
	ConfigFile string
	Title      string
	Render     builder.BuildOptions
}

// snapshot is the outcome of the latest build.
type snapshot struct {
	mu    sync.RWMutex
	nav   nav.Nav
	pages int
	err   error
}

func (s *snapshot) update(build BuildFunc) error {
	n, pages, err := build()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		return err
	}
	s.nav, s.pages, s.err = n, pages, nil
	return nil
}

func (s *snapshot) get() (nav.Nav, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nav, s.pages, s.err
}

// Run builds once, then serves the docs, the rendered navigation and a
// live-reload socket until ctx is cancelled. Changes below the docs
// directory or to the config file trigger a rebuild.
func Run(ctx context.Context, opts Options, build BuildFunc, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	state := &snapshot{}
	if err := state.update(build); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	hub := newHub(logger)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	w := &watchSet{watcher: watcher, dirs: make(map[string]bool), logger: logger}
	if err := w.addTree(opts.DocsDir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", opts.DocsDir, err)
	}
	if opts.ConfigFile != "" {
		// Watch the parent directory so editors that save by rename are seen.
		w.add(filepath.Dir(opts.ConfigFile))
	}

	go watchForChanges(ctx, w, hub, state, build, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: newHandler(opts, state, hub, logger),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Serving docs on http://localhost%s (navigation at %s)\n", srv.Addr, NavPath)
	fmt.Println("Press Ctrl+C to stop")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// watchSet tracks the watched directories to avoid duplicates.
type watchSet struct {
	watcher *fsnotify.Watcher
	dirs    map[string]bool
	logger  *zap.Logger
}

func (w *watchSet) add(dir string) {
	dir = filepath.Clean(dir)
	if w.dirs[dir] {
		return
	}
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Warn("Error adding watch", zap.String("dir", dir), zap.Error(err))
		return
	}
	w.logger.Debug("Watching directory", zap.String("dir", dir))
	w.dirs[dir] = true
}

func (w *watchSet) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			w.add(p)
		}
		return nil
	})
}

func watchForChanges(ctx context.Context, w *watchSet, hub *Hub, state *snapshot, build BuildFunc, logger *zap.Logger) {
	var lastBuildTime time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						logger.Warn("Failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
					}
				}
			}
			if time.Since(lastBuildTime) <= debounceDuration {
				continue
			}
			// Give editors time to finish writing.
			time.Sleep(100 * time.Millisecond)

			logger.Info("Change detected, rebuilding", zap.String("path", event.Name))
			if err := state.update(build); err != nil {
				logger.Error("Error rebuilding navigation", zap.Error(err))
			} else {
				logger.Info("Navigation rebuilt, triggering reload")
				hub.broadcastMessage([]byte("reload"))
			}
			lastBuildTime = time.Now()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

func newHandler(opts Options, state *snapshot, hub *Hub, logger *zap.Logger) http.Handler {
	title := opts.Title
	if title == "" {
		title = "Navigation"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r)
	})
	mux.HandleFunc("/nav.json", func(w http.ResponseWriter, r *http.Request) {
		n, _, err := state.get()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out, err := builder.JSON(n)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(out)
	})
	mux.Handle(NavPath, liveReloadWrapper(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, pages, err := state.get()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		var buf bytes.Buffer
		relPath := strings.TrimPrefix(NavPath, "/") + "index.html"
		if err := builder.RenderPage(&buf, title, relPath, n, pages, opts.Render); err != nil {
			logger.Error("Failed to render navigation page", zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
	})))

	if opts.DocsDir != "" {
		mux.Handle("/", liveReloadWrapper(http.FileServer(http.Dir(opts.DocsDir))))
	}
	return mux
}

func liveReloadWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		isHTML := strings.HasSuffix(r.URL.Path, ".html") || strings.HasSuffix(r.URL.Path, "/")
		if !isHTML {
			next.ServeHTTP(w, r)
			return
		}

		iw := newInterceptingWriter(w)
		next.ServeHTTP(iw, r)

		for key, values := range iw.Header() {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}

		bodyBytes := iw.body.Bytes()
		if iw.statusCode != http.StatusOK {
			w.WriteHeader(iw.statusCode)
			w.Write(bodyBytes)
			return
		}

		injectedBody := bytes.Replace(bodyBytes, []byte("</body>"), []byte(liveReloadScript+"</body>"), 1)
		w.Header().Set("Content-Length", fmt.Sprint(len(injectedBody)))
		w.WriteHeader(iw.statusCode)
		w.Write(injectedBody)
	})
}

type interceptingWriter struct {
	http.ResponseWriter
	body       *bytes.Buffer
	statusCode int
	header     http.Header
}

func newInterceptingWriter(w http.ResponseWriter) *interceptingWriter {
	return &interceptingWriter{
		ResponseWriter: w,
		body:           new(bytes.Buffer),
		header:         make(http.Header),
		statusCode:     http.StatusOK,
	}
}

func (iw *interceptingWriter) Header() http.Header {
	return iw.header
}

func (iw *interceptingWriter) Write(b []byte) (int, error) {
	return iw.body.Write(b)
}

func (iw *interceptingWriter) WriteHeader(statusCode int) {
	iw.statusCode = statusCode
}

const liveReloadScript = `
<script>
  (function() {
    let socket = new WebSocket("ws://" + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "reload") {
        window.location.reload();
      }
    };
    socket.onerror = function() {
      console.error("Live reload connection error. Please restart 'litnav serve'.");
    };
  })();
</script>
`
