package notify

import (
	"errors"
	"strings"
	"testing"

	"github.com/keighl/postmark"

	"hospot/internal/config"
	"hospot/internal/domain"
)

type fakeSender struct {
	sent []postmark.Email
	err  error
}

func (f *fakeSender) SendEmail(e postmark.Email) (postmark.EmailResponse, error) {
	f.sent = append(f.sent, e)
	return postmark.EmailResponse{}, f.err
}

func sampleOrder() domain.Order {
	return domain.Order{
		ID: "o-1", UserID: "jane@example.com", TotalAmount: 47.99,
		PaymentMethod: domain.PayCashOnDelivery, DeliveryAddress: "1 <Main> St",
		Items: []domain.OrderItem{{MedicineID: "m-vitamin-d3", MedicineName: "Vitamin D3", Price: 10.50, Quantity: 4}},
	}
}

func TestPostmarkSendsToOrderOwner(t *testing.T) {
	fs := &fakeSender{}
	p := &Postmark{client: fs, from: "orders@hospot.local"}
	if err := p.OrderPlaced(sampleOrder()); err != nil {
		t.Fatal(err)
	}
	if len(fs.sent) != 1 {
		t.Fatalf("sent %d emails", len(fs.sent))
	}
	e := fs.sent[0]
	if e.To != "jane@example.com" || e.From != "orders@hospot.local" {
		t.Fatalf("bad envelope: %+v", e)
	}
	if !strings.Contains(e.TextBody, "$47.99") || !strings.Contains(e.TextBody, "4 x Vitamin D3") {
		t.Fatalf("text body: %s", e.TextBody)
	}
	if strings.Contains(e.HtmlBody, "<Main>") {
		t.Fatal("html body not escaped")
	}
}

func TestPostmarkWrapsError(t *testing.T) {
	boom := errors.New("boom")
	p := &Postmark{client: &fakeSender{err: boom}}
	if err := p.OrderPlaced(sampleOrder()); !errors.Is(err, boom) {
		t.Fatalf("want wrapped boom, got %v", err)
	}
}

func TestNewFallsBackToLog(t *testing.T) {
	if _, ok := New(config.Config{}).(LogNotifier); !ok {
		t.Fatal("expected LogNotifier without token")
	}
	if _, ok := New(config.Config{PostmarkToken: "x"}).(*Postmark); !ok {
		t.Fatal("expected Postmark with token")
	}
}
