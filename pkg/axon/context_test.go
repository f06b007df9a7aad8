package axon

import "context"

// fakeContext is a minimal RequestContext used by the package tests
type fakeContext struct {
	params  map[string]string
	query   map[string][]string
	values  map[string]interface{}
	headers map[string]string

	status  int
	body    interface{}
	text    string
	written bool
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		params:  map[string]string{},
		query:   map[string][]string{},
		values:  map[string]interface{}{},
		headers: map[string]string{},
	}
}

func (f *fakeContext) Method() string                   { return "GET" }
func (f *fakeContext) Path() string                     { return "/" }
func (f *fakeContext) RealIP() string                   { return "127.0.0.1" }
func (f *fakeContext) Context() context.Context         { return context.Background() }
func (f *fakeContext) Param(key string) string          { return f.params[key] }
func (f *fakeContext) QueryParams() map[string][]string { return f.query }
func (f *fakeContext) Request() RequestInterface        { return fakeRequest{} }
func (f *fakeContext) Response() ResponseInterface      { return f }
func (f *fakeContext) Bind(i interface{}) error         { return nil }
func (f *fakeContext) Get(key string) interface{}       { return f.values[key] }
func (f *fakeContext) Set(key string, val interface{})  { f.values[key] = val }

func (f *fakeContext) QueryParam(key string) string {
	if v := f.query[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (f *fakeContext) Status() int                 { return f.status }
func (f *fakeContext) Header(key string) string    { return f.headers[key] }
func (f *fakeContext) SetHeader(key, value string) { f.headers[key] = value }
func (f *fakeContext) Written() bool               { return f.written }

func (f *fakeContext) JSON(code int, i interface{}) error {
	f.status, f.body, f.written = code, i, true
	return nil
}

func (f *fakeContext) JSONPretty(code int, i interface{}, indent string) error {
	return f.JSON(code, i)
}

func (f *fakeContext) String(code int, s string) error {
	f.status, f.text, f.written = code, s, true
	return nil
}

type fakeRequest struct{}

func (fakeRequest) Header(string) string { return "" }
func (fakeRequest) ContentType() string  { return "" }
