// Package notify fans out warehouse lifecycle alerts to configured
// webhook and email targets. It listens on the application bus; the core
// never calls it directly.
package notify

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	"github.com/guonaihong/gout"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/stockd/stockd/config"
	"github.com/stockd/stockd/internal/domain"
	"github.com/stockd/stockd/internal/warehouse"
)

// Notifier dispatches alerts through a bounded worker pool so a slow
// webhook target cannot stall the scheduler.
type Notifier struct {
	cfg  config.NotifyConfig
	pool *ants.Pool
}

func New(cfg config.NotifyConfig) (*Notifier, error) {
	pool, err := ants.NewPool(4)
	if err != nil {
		return nil, err
	}
	return &Notifier{cfg: cfg, pool: pool}, nil
}

// Subscribe registers the notifier on the bus topics it cares about.
func (n *Notifier) Subscribe(bus EventBus.Bus) error {
	if err := bus.SubscribeAsync(warehouse.TopicStockLow, n.onLowStock, false); err != nil {
		return err
	}
	return bus.SubscribeAsync(warehouse.TopicOrderCompleted, n.onOrderCompleted, false)
}

func (n *Notifier) onLowStock(p *domain.Product) {
	subject := fmt.Sprintf("low stock: %s (%s)", p.Name, p.ID)
	body := fmt.Sprintf("product %s (%s) is down to %d units", p.Name, p.ID, p.StockQuantity)
	n.dispatch(subject, body, map[string]interface{}{
		"event":      warehouse.TopicStockLow,
		"product_id": p.ID,
		"name":       p.Name,
		"stock":      p.StockQuantity,
	})
}

func (n *Notifier) onOrderCompleted(o *domain.Order) {
	subject := fmt.Sprintf("order completed: %s", o.ID)
	body := fmt.Sprintf("%s order %s completed, total %.0f", o.Type, o.ID, o.Total)
	n.dispatch(subject, body, map[string]interface{}{
		"event":    warehouse.TopicOrderCompleted,
		"order_id": o.ID,
		"type":     o.Type,
		"total":    o.Total,
	})
}

func (n *Notifier) dispatch(subject, body string, payload map[string]interface{}) {
	if n.cfg.WebhookURL != "" {
		n.submit(func() { n.postWebhook(payload) })
	}
	if n.cfg.SmtpHost != "" && n.cfg.MailTo != "" {
		n.submit(func() { n.sendMail(subject, body) })
	}
}

func (n *Notifier) submit(task func()) {
	if err := n.pool.Submit(task); err != nil {
		zap.L().Warn("notify pool rejected task", zap.Error(err))
	}
}

func (n *Notifier) postWebhook(payload map[string]interface{}) {
	var code int
	err := gout.POST(n.cfg.WebhookURL).
		SetJSON(payload).
		Code(&code).
		Do()
	if err != nil {
		zap.L().Warn("webhook notify failed", zap.Error(err))
		return
	}
	if code >= 300 {
		zap.L().Warn("webhook notify rejected", zap.Int("status", code))
	}
}

func (n *Notifier) sendMail(subject, body string) {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.MailFrom)
	m.SetHeader("To", n.cfg.MailTo)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(n.cfg.SmtpHost, n.cfg.SmtpPort, n.cfg.SmtpUser, n.cfg.SmtpPwd)
	if err := d.DialAndSend(m); err != nil {
		zap.L().Warn("mail notify failed", zap.Error(err))
	}
}

// Close drains the worker pool.
func (n *Notifier) Close() {
	n.pool.Release()
}
