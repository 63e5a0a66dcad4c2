package repository

import (
	"context"
	"net/url"

	"comanda-client/internal/api"
	"comanda-client/internal/result"
)

// fetch performs one JSON call and maps the outcome to a terminal Result:
// 2xx with a usable body decodes into T, 2xx with an empty body is a distinct
// failure, mapped statuses use the operation's message table, and transport
// or decode trouble becomes a connection error. Errors never escape as Go
// errors past this point.
func fetch[T any](ctx context.Context, c *api.Client, method, path string, query url.Values, body any, msgs api.StatusMessages) result.Result[T] {
	resp, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return result.Err[T](api.ConnectionMessage(err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result.Err[T](msgs.MessageFor(resp.StatusCode))
	}
	if resp.Empty() {
		return result.Err[T](api.MsgEmptyBody)
	}
	var out T
	if err := api.DecodeInto(resp, &out); err != nil {
		return result.Err[T](api.ConnectionMessage(err))
	}
	return result.Ok(out)
}

// execute is fetch for operations whose success has no payload (deletes,
// clears): any 2xx counts as success even with an empty body.
func execute(ctx context.Context, c *api.Client, method, path string, query url.Values, body any, msgs api.StatusMessages) result.Result[struct{}] {
	resp, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return result.Err[struct{}](api.ConnectionMessage(err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result.Err[struct{}](msgs.MessageFor(resp.StatusCode))
	}
	return result.Ok(struct{}{})
}
