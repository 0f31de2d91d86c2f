package imagestore

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"
	"tutor-agent-backend/config"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
	"github.com/google/uuid"
)

// 预签名 URL 的有效期要覆盖视觉模型拉取图片的整个流式周期
const presignExpiry = 30 * time.Minute

func newClient() *oss.Client {
	cfg := &oss.Config{
		Region: oss.Ptr(config.Cfg.OSS.Region),
		CredentialsProvider: credentials.NewStaticCredentialsProvider(
			config.Cfg.OSS.AccessKeyID,
			config.Cfg.OSS.AccessKeySecret,
		),
	}
	return oss.NewClient(cfg)
}

// Upload 把题目图片存入 OSS，返回对象键。
// 对象键按用户分目录，文件名随机，避免覆盖与猜测
func Upload(ctx context.Context, userID uint, filename string, body io.Reader) (string, error) {
	ext := path.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("problem-images/%d/%s%s", userID, uuid.New().String(), ext)

	client := newClient()
	_, err := client.PutObject(ctx, &oss.PutObjectRequest{
		Bucket: oss.Ptr(config.Cfg.OSS.Bucket),
		Key:    oss.Ptr(key),
		Body:   body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to oss: %v", err)
	}
	return key, nil
}

// PresignURL 为已上传的对象生成临时可读 URL，供视觉模型访问
func PresignURL(ctx context.Context, key string) (string, error) {
	client := newClient()
	result, err := client.Presign(ctx, &oss.GetObjectRequest{
		Bucket: oss.Ptr(config.Cfg.OSS.Bucket),
		Key:    oss.Ptr(key),
	}, oss.PresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign image url: %v", err)
	}
	return result.URL, nil
}
