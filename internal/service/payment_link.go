package service

import (
	"net/url"
	"strings"

	"github.com/modeva-next/internal/config"
	"github.com/modeva-next/internal/constants"
	"github.com/modeva-next/internal/models"
)

// PaymentInstruction 支付指引（banking 生成转账信息与二维码链接）
type PaymentInstruction struct {
	Method            string `json:"method"`
	BankName          string `json:"bank_name,omitempty"`
	BankAccountNumber string `json:"bank_account_number,omitempty"`
	BankAccountName   string `json:"bank_account_name,omitempty"`
	Amount            string `json:"amount,omitempty"`
	TransferNote      string `json:"transfer_note,omitempty"`
	QRURL             string `json:"qr_url,omitempty"`
}

// BuildPaymentInstruction 按支付方式生成支付指引。
// cod 无需指引；banking 拼接转账二维码链接（金额与订单号作为备注）。
func BuildPaymentInstruction(cfg *config.OrderConfig, order *models.Order) PaymentInstruction {
	instruction := PaymentInstruction{Method: order.PaymentMethod}
	if order.PaymentMethod != constants.PaymentMethodBanking || cfg == nil {
		return instruction
	}

	instruction.BankName = cfg.BankName
	instruction.BankAccountNumber = cfg.BankAccountNumber
	instruction.BankAccountName = cfg.BankAccountName
	instruction.Amount = order.PaymentPrice.String()
	instruction.TransferNote = order.OrderNo

	base := strings.TrimSpace(cfg.TransferQRBaseURL)
	if base == "" {
		return instruction
	}
	query := url.Values{}
	query.Set("account", cfg.BankAccountNumber)
	query.Set("name", cfg.BankAccountName)
	query.Set("amount", order.PaymentPrice.String())
	query.Set("memo", order.OrderNo)
	instruction.QRURL = strings.TrimRight(base, "/") + "?" + query.Encode()
	return instruction
}
