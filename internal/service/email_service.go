package service

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/modeva-next/internal/config"
)

// EmailService 邮件发送服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 判断邮件服务是否可用
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled && strings.TrimSpace(s.cfg.Host) != ""
}

// SendOrderStatusEmail 发送订单状态变更邮件
func (s *EmailService) SendOrderStatusEmail(toEmail, orderNo, status string) error {
	subject := fmt.Sprintf("Đơn hàng %s: %s", orderNo, statusSubject(status))
	body := fmt.Sprintf("Đơn hàng %s của bạn đã chuyển sang trạng thái: %s.", orderNo, statusSubject(status))
	return s.sendTextEmail(toEmail, subject, body)
}

func statusSubject(status string) string {
	switch status {
	case "pending":
		return "chờ xác nhận"
	case "confirmed":
		return "đã xác nhận"
	case "processing":
		return "đang xử lý"
	case "completed":
		return "hoàn tất"
	case "cancelled":
		return "đã hủy"
	case "refunded":
		return "đã hoàn tiền"
	}
	return status
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if !s.Enabled() {
		return errors.New("email service disabled")
	}
	to := strings.TrimSpace(toEmail)
	if to == "" {
		return errors.New("empty recipient")
	}

	from := strings.TrimSpace(s.cfg.From)
	if from == "" {
		from = s.cfg.Username
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	msg := buildEmailMessage(buildFromAddress(from, s.cfg.FromName), to, subject, body)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	return smtp.SendMail(addr, auth, from, []string{to}, []byte(msg))
}

func buildFromAddress(from, name string) string {
	cleaned := strings.TrimSpace(name)
	if cleaned == "" {
		return from
	}
	return fmt.Sprintf("%s <%s>", cleaned, from)
}

func buildEmailMessage(from, to, subject, body string) string {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}
