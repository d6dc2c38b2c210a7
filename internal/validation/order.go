package validation

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"cubograf/m/domain"
)

// MaterialList accepts either a JSON array of names or a comma separated string.
type MaterialList struct {
	Names    domain.Materials
	provided bool
}

// NewMaterialList builds a list as if the client had sent the names as an array.
func NewMaterialList(names ...string) MaterialList {
	var m MaterialList
	m.set(names)
	return m
}

func (m *MaterialList) set(names []string) {
	m.provided = len(names) > 0
	m.Names = domain.Materials{}
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			m.Names = append(m.Names, name)
		}
	}
}

func (m *MaterialList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*m = MaterialList{}
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*m = MaterialList{Names: domain.SplitMaterials(s), provided: s != ""}
	default:
		var names []string
		if err := json.Unmarshal(b, &names); err != nil {
			return err
		}
		m.set(names)
	}
	return nil
}

func (m MaterialList) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Names)
}

// OrderPayload is a service order as submitted by the dashboard.
type OrderPayload struct {
	Client        string       `json:"cliente"`
	Seller        string       `json:"vendedor"`
	Material      MaterialList `json:"material"`
	Supplier      string       `json:"fornecedor"`
	Total         Money        `json:"valor_total"`
	Cost          Money        `json:"custo"`
	PaymentMethod string       `json:"forma_pagamento"`
	Date          string       `json:"data"`
	Status        string       `json:"status"`
}

// ValidateOrder checks an order payload and returns the problems found, in
// the order the dashboard shows them. On success it leaves Total.Value and
// Cost.Value holding the parsed amounts.
func ValidateOrder(p *OrderPayload) Errors {
	var errs Errors

	required := []struct {
		label string
		ok    bool
	}{
		{"Nome do cliente", strings.TrimSpace(p.Client) != ""},
		{"Nome do vendedor", strings.TrimSpace(p.Seller) != ""},
		{"Material", p.Material.provided},
		{"Valor total", p.Total.Provided()},
	}
	for _, field := range required {
		if !field.ok {
			errs = append(errs, "Campo '"+field.label+"' é obrigatório")
		}
	}

	totalErr := p.Total.Normalize()
	costErr := p.Cost.Normalize()
	if totalErr != nil || costErr != nil {
		errs = append(errs, "Valor total ou custo inválido")
	} else {
		if p.Total.Provided() && p.Total.Value <= 0 {
			errs = append(errs, "Valor total deve ser maior que zero")
		}
		if p.Cost.Value < 0 {
			errs = append(errs, "Custo não pode ser negativo")
		}
	}

	if len(p.Material.Names) == 0 {
		errs = append(errs, "Pelo menos um material deve ser informado")
	}

	if p.Date != "" {
		if _, err := time.Parse(domain.DateLayout, p.Date); err != nil {
			errs = append(errs, "Data inválida, use o formato AAAA-MM-DD")
		}
	}
	return errs
}
