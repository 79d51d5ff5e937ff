package model

import "sort"

// CaseType is a categorical label for the legal dispute subject matter.
// It is used both for reporting and as an optional retrieval filter.
// The empty string means "no type" (unclassified or relaxed filter).
type CaseType string

const (
	CaseTypeAvisoPrevio       CaseType = "AVISO_PREVIO"
	CaseTypeDemoraAutorizacao CaseType = "DEMORA_AUTORIZACAO"
	CaseTypeHomeCare          CaseType = "HOME_CARE"
	CaseTypeReembolso         CaseType = "REEMBOLSO"
	CaseTypeTerapiasRede      CaseType = "TERAPIAS_REDE"
	CaseTypeUnknown           CaseType = "DESCONHECIDO"
)

// CaseTypeInfo describes a case type for reporting and statistics.
type CaseTypeInfo struct {
	Name        string   `json:"name"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description"`
}

// CaseTypes is the catalogue of known litigation categories in the index.
var CaseTypes = map[CaseType]CaseTypeInfo{
	CaseTypeAvisoPrevio: {
		Name:        "Aviso Prévio / Cancelamento",
		Keywords:    []string{"aviso prévio", "cancelamento", "rescisão unilateral"},
		Description: "Cancelamento de plano sem aviso prévio adequado",
	},
	CaseTypeDemoraAutorizacao: {
		Name:        "Demora na Autorização",
		Keywords:    []string{"demora", "autorização", "prazo", "urgência"},
		Description: "Demora excessiva em autorizar procedimentos",
	},
	CaseTypeHomeCare: {
		Name:        "Home Care / Internação Domiciliar",
		Keywords:    []string{"home care", "atendimento domiciliar", "internação domiciliar"},
		Description: "Negativa de cobertura de home care",
	},
	CaseTypeReembolso: {
		Name:        "Reembolso / Divergência de Valores",
		Keywords:    []string{"reembolso", "pagamento", "divergência", "valor"},
		Description: "Problemas com reembolso de despesas médicas",
	},
	CaseTypeTerapiasRede: {
		Name:        "Terapias / Livre Escolha",
		Keywords:    []string{"terapia", "livre escolha", "área de abrangência", "rede credenciada"},
		Description: "Restrições na escolha de profissionais/terapias",
	},
}

// Info returns the catalogue entry for the case type, falling back to an
// unknown entry for unlisted types.
func (t CaseType) Info() CaseTypeInfo {
	if info, ok := CaseTypes[t]; ok {
		return info
	}
	return CaseTypeInfo{
		Name:        "Desconhecido",
		Description: "Tipo de caso não identificado",
	}
}

// KnownCaseTypes returns the catalogued case types in lexical order.
func KnownCaseTypes() []CaseType {
	types := make([]CaseType, 0, len(CaseTypes))
	for t := range CaseTypes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
