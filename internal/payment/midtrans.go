package payment

import (
	"context"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// Midtrans creates Snap transactions.
type Midtrans struct {
	client    snap.Client
	serverKey string
}

func NewMidtrans(serverKey string, production bool) *Midtrans {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	m := &Midtrans{serverKey: serverKey}
	m.client.New(serverKey, env)
	return m
}

// CreateLink requests a Snap token. The snap client has no context
// support, so ctx is only checked before the call.
func (m *Midtrans) CreateLink(ctx context.Context, req LinkRequest) (*Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: req.Amount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.FirstName,
			LName: req.LastName,
			Email: req.Email,
			Phone: req.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.OrderID,
				Name:  req.ItemName,
				Price: req.Amount,
				Qty:   1,
			},
		},
	}

	resp, snapErr := m.client.CreateTransaction(snapReq)
	if snapErr != nil {
		return nil, fmt.Errorf("midtrans: %s", snapErr.GetMessage())
	}
	return &Link{OrderID: req.OrderID, Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func (m *Midtrans) VerifyNotification(n Notification) error {
	return verify(n, m.serverKey)
}
