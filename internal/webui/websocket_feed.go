package webui

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alex65536/league/internal/feed"
	"github.com/alex65536/league/internal/league"
	"github.com/alex65536/league/internal/util/httputil"
	"github.com/alex65536/league/internal/util/slogx"
	"github.com/alex65536/league/internal/util/sliceutil"
	"github.com/alex65536/league/internal/util/websockutil"
	"golang.org/x/time/rate"
)

type feedMessage struct {
	Kinds []string `json:"kinds"`
}

type feedWebSocketSession struct {
	req *http.Request
	log *slog.Logger
	cfg *Config
	p   *websockutil.Pusher
}

func (s *feedWebSocketSession) Do() {
	defer s.p.Close()

	sub, unsub := s.cfg.Feed.Subscribe()
	defer unsub()

	limit := rate.NewLimiter(rate.Limit(s.cfg.opts.FeedRPSLimit), s.cfg.opts.FeedRPSBurst)
	for {
		select {
		case _, ok := <-sub.C():
			if !ok {
				s.p.Shutdown()
				return
			}
		case <-s.p.Done():
			return
		}
		if err := limit.Wait(s.req.Context()); err != nil {
			return
		}
		changes := sub.Take()
		if len(changes) == 0 {
			continue
		}
		data, err := json.Marshal(feedMessage{
			Kinds: sliceutil.Map(feed.Kinds(changes), func(k league.EntityKind) string { return k.String() }),
		})
		if err != nil {
			s.log.Error("could not marshal changes", slogx.Err(err))
			s.p.Shutdown()
			return
		}
		if err := s.p.Push(data); err != nil {
			s.log.Info("could not write message", slogx.Err(err))
			return
		}
	}
}

type feedWebSocketImpl struct {
	log     *slog.Logger
	cfg     *Config
	factory *websockutil.Factory
}

func feedWebSocket(log *slog.Logger, cfg *Config) http.Handler {
	return &feedWebSocketImpl{
		log:     log,
		cfg:     cfg,
		factory: websockutil.NewFactory(cfg.opts.WebSocket),
	}
}

func (s *feedWebSocketImpl) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	log := s.log.With(slog.String("rid", httputil.ExtractReqID(ctx)))
	log.Info("handle feed websocket", slog.String("addr", req.RemoteAddr))

	p, err := s.factory.Upgrade(w, req, log)
	if err != nil {
		return
	}
	feedSession := &feedWebSocketSession{
		req: req,
		log: log,
		cfg: s.cfg,
		p:   p,
	}
	feedSession.Do()
}
