package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
)

// 生成 JWT_SECRET_KEY 用的随机密钥
func main() {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		slog.Error("Error generating secret", "err", err)
		os.Exit(1)
	}
	fmt.Println(base64.URLEncoding.EncodeToString(key))
}
