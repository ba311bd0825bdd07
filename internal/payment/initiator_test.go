package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/medogram/medoterm/internal/api"
	"go.uber.org/zap"
)

type fakeGateway struct {
	calls  int
	url    string
	err    error
	status string
}

func (f *fakeGateway) CreatePayment(_ context.Context, _ int64) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func (f *fakeGateway) VerifyPayment(_ context.Context, _, _ string) (string, error) {
	return f.status, f.err
}

func TestAmountBoundsRejectedLocally(t *testing.T) {
	g := &fakeGateway{url: "https://pay.example/t/1"}
	p := NewInitiator(g, nil, zap.NewNop())

	for _, amount := range []int64{0, 50_000, 99_999, 5_000_001, 6_000_000} {
		_, err := p.RequestLink(context.Background(), amount)
		var verr *api.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("RequestLink(%d) error = %v, want ValidationError", amount, err)
		}
	}
	if g.calls != 0 {
		t.Errorf("gateway calls = %d, want 0", g.calls)
	}
}

func TestValidAmountIssuesExactlyOneRequest(t *testing.T) {
	g := &fakeGateway{url: "https://pay.example/t/1"}
	p := NewInitiator(g, nil, zap.NewNop())

	url, err := p.RequestLink(context.Background(), 300_000)
	if err != nil {
		t.Fatal(err)
	}
	if g.calls != 1 {
		t.Errorf("gateway calls = %d, want 1", g.calls)
	}
	if url != "https://pay.example/t/1" {
		t.Errorf("url = %q", url)
	}
	if p.LinkURL() != url {
		t.Errorf("LinkURL() = %q, want stored url", p.LinkURL())
	}
}

func TestBoundaryAmountsAccepted(t *testing.T) {
	g := &fakeGateway{url: "u"}
	p := NewInitiator(g, nil, zap.NewNop())

	for _, amount := range []int64{MinAmount, MaxAmount} {
		if _, err := p.RequestLink(context.Background(), amount); err != nil {
			t.Errorf("RequestLink(%d) error = %v, want nil", amount, err)
		}
	}
}

func TestFailureSurfacesErrorAndKeepsNoURL(t *testing.T) {
	g := &fakeGateway{err: &api.NetworkError{Status: 502}}
	p := NewInitiator(g, nil, zap.NewNop())

	_, err := p.RequestLink(context.Background(), 300_000)
	var nerr *api.NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
	if p.LinkURL() != "" {
		t.Errorf("LinkURL() = %q, want empty after failure", p.LinkURL())
	}
}

func TestVerifyRequiresBothIDs(t *testing.T) {
	g := &fakeGateway{status: "paid"}
	p := NewInitiator(g, nil, zap.NewNop())

	if _, err := p.Verify(context.Background(), "", "x"); err == nil {
		t.Error("missing trans_id should fail")
	}
	status, err := p.Verify(context.Background(), "t1", "g1")
	if err != nil {
		t.Fatal(err)
	}
	if status != "paid" {
		t.Errorf("status = %q", status)
	}
}
