package errx

import (
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// WrapRedis maps session-store errors onto the unified Error type. A cache
// miss keeps its NotFound status so repositories can treat it as an empty
// conversation rather than a failure.
func WrapRedis(err error) *Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return New(err, http.StatusNotFound, RedisNotFoundMessage)
	}
	return &Error{
		Err:     err,
		Kind:    KindInternal,
		Status:  http.StatusBadGateway,
		Message: RedisErrorMessage,
	}
}
