package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"

	"connectrpc.com/connect"

	"github.com/mmynk/warikan/internal/api"
	"github.com/mmynk/warikan/internal/calculator"
)

// SplitService implements the stateless api.SplitServiceHandler.
type SplitService struct {
	opts Options
	rng  *lockedRand
}

var _ api.SplitServiceHandler = (*SplitService)(nil)

// NewSplitService creates a new SplitService.
func NewSplitService(opts Options) *SplitService {
	return &SplitService{opts: opts, rng: newLockedRand(opts.Seed)}
}

// ComputeEqualSplit handles equal split calculation.
func (s *SplitService) ComputeEqualSplit(ctx context.Context, req *connect.Request[api.ComputeEqualSplitRequest]) (*connect.Response[api.SplitResponse], error) {
	total, err := calculator.ParseAmount(req.Msg.TotalAmount)
	if err != nil {
		return s.noResult(calculator.ModeEqual, err)
	}
	count, err := calculator.ParseCount(req.Msg.PeopleCount)
	if err != nil {
		return s.noResult(calculator.ModeEqual, err)
	}

	r, err := calculator.EqualSplit(total, count)
	if err != nil {
		return s.noResult(calculator.ModeEqual, err)
	}

	slog.Debug("Equal split",
		"total", r.Total,
		"people", count,
		"share", r.Shares[0].Amount,
		"remainder", r.Remainder,
	)
	return s.computed(r)
}

// ComputeRandomSplit handles random split calculation.
func (s *SplitService) ComputeRandomSplit(ctx context.Context, req *connect.Request[api.ComputeRandomSplitRequest]) (*connect.Response[api.SplitResponse], error) {
	total, err := calculator.ParseAmount(req.Msg.TotalAmount)
	if err != nil {
		return s.noResult(calculator.ModeRandom, err)
	}

	var r *calculator.SplitResult
	s.rng.with(func(rng *rand.Rand) {
		r, err = calculator.RandomSplit(total, peopleFromAPI(req.Msg.People), rng)
	})
	if err != nil {
		return s.noResult(calculator.ModeRandom, err)
	}

	slog.Debug("Random split", "total", r.Total, "people", len(r.Shares))
	return s.computed(r)
}

// ComputeRegisteredSplit handles registered split calculation. It always
// produces a result.
func (s *SplitService) ComputeRegisteredSplit(ctx context.Context, req *connect.Request[api.ComputeRegisteredSplitRequest]) (*connect.Response[api.SplitResponse], error) {
	for i, p := range req.Msg.People {
		slog.Debug("Processing person",
			"index", i+1,
			"name", p.Name,
			"items_count", len(p.Items),
		)
	}

	r := calculator.RegisteredSplit(peopleFromAPI(req.Msg.People))
	return s.computed(r)
}

func (s *SplitService) computed(r *calculator.SplitResult) (*connect.Response[api.SplitResponse], error) {
	s.opts.observe(string(r.Mode), true)
	return connect.NewResponse(&api.SplitResponse{
		Computed: true,
		Result:   resultToAPI(r, s.opts.CurrencyUnit),
	}), nil
}

// noResult turns invalid input into an empty response. Anything else is a bug
// and surfaces as an internal error.
func (s *SplitService) noResult(mode calculator.Mode, err error) (*connect.Response[api.SplitResponse], error) {
	if !errors.Is(err, calculator.ErrInvalidInput) {
		slog.Error("Split failed", "mode", mode, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.opts.observe(string(mode), false)
	slog.Debug("No split computed", "mode", mode, "reason", err)
	return connect.NewResponse(&api.SplitResponse{
		Computed: false,
		Reason:   err.Error(),
	}), nil
}
