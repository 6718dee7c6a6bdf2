package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Capability 管理员能力凭证，由登录接口签发，传入每个写操作
type Capability struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid 凭证非空且未过期
func (c *Capability) Valid(now time.Time) bool {
	if c == nil || c.Token == "" {
		return false
	}
	return c.ExpiresAt.IsZero() || now.Before(c.ExpiresAt)
}

func requireCapability(c *Capability) error {
	if !c.Valid(time.Now()) {
		return ErrNotAuthorized
	}
	return nil
}

// SaveCapability 将凭证写入本地文件（仅当前用户可读）
func SaveCapability(path string, c *Capability) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("保存凭证失败: %w", err)
	}
	return nil
}

// LoadCapability 读取本地凭证；文件不存在或已过期返回 ErrNotAuthorized
func LoadCapability(path string) (*Capability, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotAuthorized
		}
		return nil, fmt.Errorf("读取凭证失败: %w", err)
	}
	var c Capability
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("凭证文件损坏: %w", err)
	}
	if !c.Valid(time.Now()) {
		return nil, ErrNotAuthorized
	}
	return &c, nil
}

// ClearCapability 删除本地凭证
func ClearCapability(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
