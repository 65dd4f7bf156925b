package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ObjectAPI 是 ImageStore 用到的 S3 操作，*s3.Client 直接滿足此介面
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// ImageStore 將使用者上傳的圖片存到 S3
type ImageStore struct {
	client ObjectAPI
	// bucket 是 S3 存儲桶的名稱。
	bucket string
	// publicEndpoint 是 S3 存儲桶的公開 Endpoint。
	publicEndpoint *url.URL
	// maxSize 是單張圖片的大小上限
	maxSize int64
}

func NewImageStore(client ObjectAPI, bucket, publicBaseURL string, maxSize int64) (*ImageStore, error) {
	const op = "NewImageStore"
	publicEndpoint, err := url.Parse(publicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to parse public base URL, err=%w", op, err)
	}
	return &ImageStore{
		client:         client,
		bucket:         bucket,
		publicEndpoint: publicEndpoint,
		maxSize:        maxSize,
	}, nil
}

// UploadImage 將圖片存到 {folder}/{userID}/{uuid}.{ext} 並回傳公開網址
func (s *ImageStore) UploadImage(ctx context.Context, folder string, userID uint, contentType string, body io.Reader) (string, error) {
	const op = "UploadImage"
	ext, err := ImageExtension(contentType)
	if err != nil {
		return "", err
	}
	content, err := io.ReadAll(NewMaxSizeReader(body, s.maxSize))
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to read image, err=%w", op, err)
	}

	key := path.Join(folder, strconv.FormatUint(uint64(userID), 10), uuid.NewString()+"."+ext)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to upload file to S3, err=%w", op, err)
	}
	return s.PublicURL(key), nil
}

func (s *ImageStore) PublicURL(key string) string {
	uri := *s.publicEndpoint
	uri.Path = path.Join("/", uri.Path, key)
	return uri.String()
}

// KeyFromURL 將 PublicURL 產生的網址轉回物件 key，不屬於此存儲桶時回傳 false
func (s *ImageStore) KeyFromURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host != s.publicEndpoint.Host {
		return "", false
	}
	prefix := strings.TrimSuffix(s.publicEndpoint.Path, "/") + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", false
	}
	return strings.TrimPrefix(u.Path, prefix), true
}

// DeleteObjects 刪除指定的物件，不存在的 key 不視為錯誤
func (s *ImageStore) DeleteObjects(ctx context.Context, keys []string) error {
	const op = "DeleteObjects"
	keys = lo.Uniq(lo.Compact(keys))
	if len(keys) == 0 {
		return nil
	}
	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{
			Objects: lo.Map(keys, func(key string, _ int) types.ObjectIdentifier {
				return types.ObjectIdentifier{Key: aws.String(key)}
			}),
			Quiet: aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("[%s] Fail to delete objects, err=%w", op, err)
	}
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("[%s] Fail to delete %d objects, first key=%s, code=%s",
			op, len(out.Errors), aws.ToString(first.Key), aws.ToString(first.Code))
	}
	return nil
}
