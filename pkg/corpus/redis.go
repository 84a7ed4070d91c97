package corpus

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// redisStream pages through a Redis list with LRANGE
type redisStream struct {
	ctx    context.Context
	client *redis.Client
	key    string
	batch  int64

	next int64
	buf  []string
	line string
	done bool
	err  error
}

func isRedisIdentifier(identifier string) bool {
	return strings.HasPrefix(identifier, "redis://") || strings.HasPrefix(identifier, "rediss://")
}

// parseRedisIdentifier splits the list key off a redis:// URL and parses the
// remaining connection options.
func parseRedisIdentifier(identifier string) (*redis.Options, string, error) {
	u, err := url.Parse(identifier)
	if err != nil {
		return nil, "", errors.Wrap(err, "parsing redis url")
	}

	query := u.Query()
	key := query.Get("key")
	if key == "" {
		return nil, "", errors.New("redis url has no key parameter")
	}
	query.Del("key")
	u.RawQuery = query.Encode()

	opt, err := redis.ParseURL(u.String())
	if err != nil {
		return nil, "", errors.Wrap(err, "parsing redis url")
	}

	return opt, key, nil
}

func openRedis(ctx context.Context, identifier string, opts Options) (Stream, error) {
	opt, key, err := parseRedisIdentifier(identifier)
	if err != nil {
		return nil, &BadIdentifierError{Identifier: identifier, Err: err}
	}
	if opts.RedisDialTimeout > 0 {
		opt.DialTimeout = opts.RedisDialTimeout
	}

	client := redis.NewClient(opt)
	fail := func(err error) (Stream, error) {
		client.Close()
		return nil, &BadIdentifierError{Identifier: identifier, Err: err}
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return fail(errors.Wrap(err, "redis connection failed"))
	}

	kind, err := client.Type(ctx, key).Result()
	if err != nil {
		return fail(errors.Wrapf(err, "inspecting %s", key))
	}
	switch kind {
	case "list":
	case "none":
		return fail(errors.Errorf("no such list %q", key))
	default:
		return fail(errors.Errorf("%q is a %s, not a list", key, kind))
	}

	batch := opts.RedisBatchSize
	if batch < 1 {
		batch = DefaultOptions().RedisBatchSize
	}

	return &redisStream{
		ctx:    ctx,
		client: client,
		key:    key,
		batch:  int64(batch),
	}, nil
}

func (s *redisStream) Scan() bool {
	if s.err != nil {
		return false
	}

	if len(s.buf) == 0 {
		if s.done {
			return false
		}

		vals, err := s.client.LRange(s.ctx, s.key, s.next, s.next+s.batch-1).Result()
		if err != nil {
			s.err = errors.Wrapf(err, "reading list %s", s.key)
			return false
		}
		s.next += int64(len(vals))
		s.done = int64(len(vals)) < s.batch
		if len(vals) == 0 {
			return false
		}
		s.buf = vals
	}

	s.line, s.buf = s.buf[0], s.buf[1:]
	return true
}

func (s *redisStream) Text() string { return s.line }
func (s *redisStream) Err() error   { return s.err }
func (s *redisStream) Close() error { return s.client.Close() }
