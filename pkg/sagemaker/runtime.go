package sagemaker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
)

const contentTypeJSON = "application/json"

// RuntimeClient はSageMakerの推論エンドポイントを呼び出します。
// リトライは行いません（失敗は呼び出し側にそのまま返す）。
type RuntimeClient struct {
	client       *sagemakerruntime.Client
	endpointName string
}

// Options RuntimeClientの設定
type Options struct {
	Region       string
	EndpointName string
	// EndpointURL はローカルのモックやVPCエンドポイントを使う場合のベースURL
	EndpointURL string
}

// NewRuntimeClient はAWSの標準認証チェーンからクライアントを作成します。
func NewRuntimeClient(ctx context.Context, opts Options) (*RuntimeClient, error) {
	if strings.TrimSpace(opts.EndpointName) == "" {
		return nil, errors.New("sagemaker endpoint name is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("AWS設定の読み込みに失敗: %w", err)
	}

	client := sagemakerruntime.NewFromConfig(cfg, func(o *sagemakerruntime.Options) {
		o.Retryer = aws.NopRetryer{}
		if opts.EndpointURL != "" {
			o.BaseEndpoint = aws.String(opts.EndpointURL)
		}
	})
	return NewRuntimeClientFromSDK(client, opts.EndpointName), nil
}

// NewRuntimeClientFromSDK は構築済みのSDKクライアントをラップします。
func NewRuntimeClientFromSDK(client *sagemakerruntime.Client, endpointName string) *RuntimeClient {
	return &RuntimeClient{client: client, endpointName: endpointName}
}

// EndpointName 呼び出し先のエンドポイント名
func (c *RuntimeClient) EndpointName() string {
	return c.endpointName
}

// Invoke はJSONペイロードをそのまま送信し、レスポンスボディを返します。
func (c *RuntimeClient) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	out, err := c.client.InvokeEndpoint(ctx, &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(c.endpointName),
		Body:         payload,
		ContentType:  aws.String(contentTypeJSON),
		Accept:       aws.String(contentTypeJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("InvokeEndpoint %s: %w", c.endpointName, err)
	}
	return out.Body, nil
}
