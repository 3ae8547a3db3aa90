package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modeva-next/internal/config"
	"github.com/modeva-next/internal/repository"
)

// AssistantService 导购助手：将商品目录拼入提示词，
// 转发到外部模型接口，返回其回答。外部接口视为黑盒。
type AssistantService struct {
	cfg         *config.AssistantConfig
	productRepo repository.ProductRepository
	httpClient  *http.Client
}

// NewAssistantService 创建导购助手服务
func NewAssistantService(cfg *config.AssistantConfig, productRepo repository.ProductRepository) *AssistantService {
	timeout := 8 * time.Second
	if cfg != nil && cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &AssistantService{
		cfg:         cfg,
		productRepo: productRepo,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Enabled 判断助手是否启用
func (s *AssistantService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled && strings.TrimSpace(s.cfg.Endpoint) != ""
}

type assistantRequest struct {
	Model    string             `json:"model,omitempty"`
	Messages []assistantMessage `json:"messages"`
}

type assistantMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type assistantResponse struct {
	Choices []struct {
		Message assistantMessage `json:"message"`
	} `json:"choices"`
}

// Chat 回答用户的导购问题
func (s *AssistantService) Chat(ctx context.Context, question string) (string, error) {
	if !s.Enabled() {
		return "", ErrAssistantDisabled
	}
	cleaned := strings.TrimSpace(question)
	if cleaned == "" {
		return "", ErrAssistantDisabled
	}

	prompt, err := s.buildPrompt()
	if err != nil {
		return "", err
	}

	payload := assistantRequest{
		Model: s.cfg.Model,
		Messages: []assistantMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: cleaned},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if key := strings.TrimSpace(s.cfg.APIKey); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("assistant endpoint returned %d", resp.StatusCode)
	}

	var parsed assistantResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("assistant endpoint returned empty choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// buildPrompt 拼接在售商品清单作为回答依据
func (s *AssistantService) buildPrompt() (string, error) {
	products, _, err := s.productRepo.List(repository.ProductListFilter{
		Page:       1,
		PageSize:   50,
		OnlyActive: true,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("你是时装店的导购助手，只依据以下在售商品回答，不要编造商品：\n")
	for _, product := range products {
		b.WriteString(fmt.Sprintf("- %s（价格 %s VND）\n", product.Name, product.PriceAmount.String()))
	}
	return b.String(), nil
}
