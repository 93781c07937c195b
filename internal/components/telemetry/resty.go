package telemetry

import (
	"context"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

const (
	report_http_status    = "http.status"
	report_http_transport = "http.transport"
)

type requestIdKey struct{}

func requestId(ctx context.Context) uint64 {
	id, _ := ctx.Value(requestIdKey{}).(uint64)
	return id
}

// InstrumentResty numbers every request made through client and reports it: the
// request and a successful response as debug lines, a 4xx/5xx response as a warning
// and a transport failure as broken.
func InstrumentResty(client *resty.Client, tel API) {
	var counter atomic.Uint64

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		id := counter.Add(1)
		req.SetContext(context.WithValue(req.Context(), requestIdKey{}, id))
		tel.ReportDebug("http request", id, req.Method, req.URL)
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := requestId(res.Request.Context())
		if res.IsError() {
			tel.ReportWarning(report_http_status, id, res.Request.URL, res.Status(), res.Time().String())
			return nil
		}
		tel.ReportDebug("http response", id, res.Status(), res.Time().String(), res.Size())
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		tel.ReportBroken(report_http_transport, err, requestId(req.Context()), req.Method, req.URL)
	})
}
