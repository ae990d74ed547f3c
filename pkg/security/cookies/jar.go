package cookies

import (
	"net/http"
	"time"

	"github.com/Daesol/touchgrass-sub000/pkg/logger"
	"go.uber.org/zap"
)

// Options control the attributes of cookies written by a jar.
type Options struct {
	Path     string
	Domain   string
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

// DefaultOptions returns the attributes used for session cookies.
func DefaultOptions() Options {
	return Options{
		Path:     "/",
		HTTPOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   7 * 24 * time.Hour,
	}
}

// RequestJar is a read-only jar over an incoming request, for contexts that
// may not mutate cookies (page rendering). Writes log a warning and no-op
// instead of failing the request.
type RequestJar struct {
	req *http.Request
	log *logger.Logger
}

// NewRequestJar creates a read-only jar bound to a request.
func NewRequestJar(r *http.Request, log *logger.Logger) *RequestJar {
	return &RequestJar{req: r, log: log}
}

func (j *RequestJar) Get(name string) (string, bool) {
	c, err := j.req.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (j *RequestJar) Set(name, value string) {
	j.log.Warn("Cookie write attempted in read-only context",
		zap.String("cookie", name))
}

func (j *RequestJar) Delete(name string) {
	j.log.Warn("Cookie delete attempted in read-only context",
		zap.String("cookie", name))
}

// ResponseJar is a read-write jar over a request/response pair. Reads consult
// a write overlay before the request cookies so a value written earlier in
// the same request is immediately visible.
type ResponseJar struct {
	req     *http.Request
	w       http.ResponseWriter
	opts    Options
	overlay map[string]*string // nil value marks a deletion
}

// NewResponseJar creates a writable jar bound to a request/response pair.
func NewResponseJar(r *http.Request, w http.ResponseWriter, opts Options) *ResponseJar {
	return &ResponseJar{
		req:     r,
		w:       w,
		opts:    opts,
		overlay: make(map[string]*string),
	}
}

func (j *ResponseJar) Get(name string) (string, bool) {
	if v, ok := j.overlay[name]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	c, err := j.req.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (j *ResponseJar) Set(name, value string) {
	j.overlay[name] = &value
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     j.opts.Path,
		Domain:   j.opts.Domain,
		Secure:   j.opts.Secure,
		HttpOnly: j.opts.HTTPOnly,
		SameSite: j.opts.SameSite,
		MaxAge:   int(j.opts.MaxAge.Seconds()),
	})
}

func (j *ResponseJar) Delete(name string) {
	j.overlay[name] = nil
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     j.opts.Path,
		Domain:   j.opts.Domain,
		Secure:   j.opts.Secure,
		HttpOnly: j.opts.HTTPOnly,
		SameSite: j.opts.SameSite,
		MaxAge:   -1,
	})
}
