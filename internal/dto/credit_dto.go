package dto

type GetCreditsResponse struct {
	Credits map[string]int `json:"credits"`
}

type CreditBalanceDTO struct {
	Service string `json:"service"`
	Amount  int    `json:"amount"`
}
