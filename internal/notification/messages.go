package notification

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/commons"
	"storefront/internal/domain"
)

//go:embed messages.yaml
var defaultMessages []byte

type Copy struct {
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
}

// merge returns c with every non-empty field of override applied.
func (c Copy) merge(override Copy) Copy {
	if override.Title != "" {
		c.Title = override.Title
	}
	if override.Message != "" {
		c.Message = override.Message
	}
	return c
}

type Messages struct {
	NewOrder Copy                        `yaml:"new_order"`
	Statuses map[domain.OrderStatus]Copy `yaml:"statuses"`
}

// LoadMessages returns the built-in copy, overridden entry by entry by file
// when file is not empty.
func LoadMessages(file string) (*Messages, error) {
	var msgs Messages
	if err := commons.DecodeYAML(defaultMessages, &msgs); err != nil {
		return nil, fmt.Errorf("decoding built-in messages: %w", err)
	}

	if file == "" {
		return &msgs, nil
	}

	var overrides Messages
	if err := commons.LoadYAML(file, &overrides); err != nil {
		return nil, fmt.Errorf("loading messages file: %w", err)
	}

	msgs.NewOrder = msgs.NewOrder.merge(overrides.NewOrder)
	if msgs.Statuses == nil {
		msgs.Statuses = make(map[domain.OrderStatus]Copy)
	}
	for status, c := range overrides.Statuses {
		msgs.Statuses[status] = msgs.Statuses[status].merge(c)
	}

	return &msgs, nil
}

// Status returns the customer copy for status. Unknown statuses fall back
// to a generic message so an update is never silently dropped.
func (m *Messages) Status(status domain.OrderStatus) Copy {
	if c, ok := m.Statuses[status]; ok {
		return c
	}
	return Copy{
		Title:   "Pedido atualizado",
		Message: fmt.Sprintf("Status do pedido: %s", status),
	}
}

func (m *Messages) NewOrderCopy(customerName string, total decimal.Decimal) Copy {
	r := strings.NewReplacer(
		"{customer}", customerName,
		"{total}", strings.Replace(total.StringFixed(2), ".", ",", 1),
	)
	return Copy{
		Title:   m.NewOrder.Title,
		Message: r.Replace(m.NewOrder.Message),
	}
}
