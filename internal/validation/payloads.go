package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"cubograf/m/domain"
)

var validate = validator.New()

func init() {
	// Messages use the human label of each field.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	// Money is "present" for `required` when the client sent something.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if m, ok := field.Interface().(Money); ok {
			return m.Raw
		}
		return nil
	}, Money{})
}

func check(v any) Errors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{err.Error()}
	}
	errs := make(Errors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo '" + fe.Field() + "' é obrigatório"
	case "datetime":
		return "Campo '" + fe.Field() + "' deve estar no formato AAAA-MM-DD"
	case "oneof":
		return "Campo '" + fe.Field() + "' deve ser um de: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "Campo '" + fe.Field() + "' inválido"
}

// positive normalizes an amount that was sent and checks that it is above zero.
func positive(m *Money, label string) Errors {
	if !m.Provided() {
		return nil
	}
	if err := m.Normalize(); err != nil {
		return Errors{label + " inválido"}
	}
	if m.Value <= 0 {
		return Errors{label + " deve ser maior que zero"}
	}
	return nil
}

type PurchasePayload struct {
	Item     string `json:"item" validate:"required" label:"Item"`
	Supplier string `json:"fornecedor" validate:"required" label:"Fornecedor"`
	Value    Money  `json:"valor" validate:"required" label:"Valor"`
	Date     string `json:"data" validate:"required,datetime=2006-01-02" label:"Data"`
	Note     string `json:"observacao"`
}

func (p *PurchasePayload) Validate() Errors {
	p.Item = strings.TrimSpace(p.Item)
	p.Supplier = strings.TrimSpace(p.Supplier)
	p.Note = strings.TrimSpace(p.Note)
	errs := check(p)
	return append(errs, positive(&p.Value, "Valor")...)
}

// PurchasePatch carries the fields of a purchase update; nil fields keep
// their stored value.
type PurchasePatch struct {
	Item     *string `json:"item"`
	Supplier *string `json:"fornecedor"`
	Value    *Money  `json:"valor"`
	Date     *string `json:"data" validate:"omitempty,datetime=2006-01-02" label:"Data"`
	Note     *string `json:"observacao"`
	Status   *string `json:"status"`
}

func (p *PurchasePatch) Validate() Errors {
	errs := check(p)
	if p.Value != nil {
		errs = append(errs, positive(p.Value, "Valor")...)
	}
	return errs
}

type PayablePayload struct {
	Description   string `json:"descricao" validate:"required" label:"Descrição"`
	Value         Money  `json:"valor" validate:"required" label:"Valor"`
	DueDate       string `json:"vencimento" validate:"required,datetime=2006-01-02" label:"Data de Vencimento"`
	Category      string `json:"categoria" validate:"required" label:"Categoria"`
	PaymentMethod string `json:"forma_pagamento" validate:"required" label:"Forma de Pagamento"`
	Note          string `json:"observacao"`
	PurchaseID    *int64 `json:"compra_id"`
}

func (p *PayablePayload) Validate() Errors {
	p.Description = strings.TrimSpace(p.Description)
	errs := check(p)
	return append(errs, positive(&p.Value, "Valor")...)
}

// PayablePatch carries the fields of a payable update; nil fields keep
// their stored value.
type PayablePatch struct {
	Description   *string `json:"descricao"`
	Value         *Money  `json:"valor"`
	DueDate       *string `json:"vencimento" validate:"omitempty,datetime=2006-01-02" label:"Data de Vencimento"`
	Category      *string `json:"categoria"`
	PaymentMethod *string `json:"forma_pagamento"`
	Status        *string `json:"status" validate:"omitempty,oneof=Pendente Pago" label:"Status"`
	Note          *string `json:"observacao"`
}

func (p *PayablePatch) Validate() Errors {
	errs := check(p)
	if p.Value != nil {
		errs = append(errs, positive(p.Value, "Valor")...)
	}
	return errs
}

// PaymentPayload is a client payment recorded by hand in the financial screen.
type PaymentPayload struct {
	Date   string `json:"data" validate:"required,datetime=2006-01-02" label:"data"`
	Client string `json:"cliente" validate:"required" label:"cliente"`
	Value  Money  `json:"valor" validate:"required" label:"valor"`
	Status string `json:"status" validate:"required" label:"status"`
	Note   string `json:"observacao"`
}

func (p *PaymentPayload) Validate() Errors {
	errs := check(p)
	return append(errs, positive(&p.Value, "Valor")...)
}

// Entry converts a validated payment into a financial entry.
func (p PaymentPayload) Entry() domain.FinancialEntry {
	return domain.FinancialEntry{
		Type:        domain.EntryIn,
		Value:       p.Value.Value,
		Description: "Pagamento - " + p.Client,
		Date:        p.Date,
		Client:      p.Client,
		Status:      p.Status,
		Note:        p.Note,
	}
}
