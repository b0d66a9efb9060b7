// Package mail envía las alertas de stock bajo por SMTP.
package mail

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/ports"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
)

// Subject asunto fijo de la alerta.
const Subject = "Low Stock Alert"

var _ ports.LowStockNotifier = (*SMTPNotifier)(nil)

// Sender abstrae el envío para poder sustituir el dialer SMTP en tests.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier notificador de stock bajo con remitente y destinatarios fijos.
type SMTPNotifier struct {
	sender Sender
	from   string
	to     []string
}

// NewSMTPNotifier construye el notificador a partir de la configuración de correo.
func NewSMTPNotifier(cfg config.MailConfig) *SMTPNotifier {
	return NewNotifier(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), cfg.From, cfg.To)
}

// NewNotifier construye el notificador con un Sender arbitrario.
func NewNotifier(sender Sender, from string, to []string) *SMTPNotifier {
	return &SMTPNotifier{sender: sender, from: from, to: to}
}

// NotifyLowStock envía un único correo con todos los productos.
func (n *SMTPNotifier) NotifyLowStock(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(n.to) == 0 {
		return fmt.Errorf("mail: sin destinatarios")
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to...)
	m.SetHeader("Subject", Subject)
	m.SetBody("text/plain", Body(products))
	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("mail: enviar alerta: %w", err)
	}
	return nil
}

// Body arma el texto plano: una línea por producto con su stock actual.
func Body(products []*entity.Product) string {
	var sb strings.Builder
	if len(products) == 1 {
		p := products[0]
		fmt.Fprintf(&sb, "The product '%s' has low stock. Current stock: %d.\n", p.Name, p.StockQuantity)
		return sb.String()
	}
	fmt.Fprintf(&sb, "%d products have low stock:\n", len(products))
	for _, p := range products {
		fmt.Fprintf(&sb, "- '%s': current stock %d (threshold %d)\n", p.Name, p.StockQuantity, p.Threshold)
	}
	return sb.String()
}
