package tracing

import (
	"fmt"
	"io"
	"net/http"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// InitTracer 初始化Jaeger Tracer
func InitTracer(serviceName, endpoint string, sampler float64) (opentracing.Tracer, io.Closer, error) {
	cfg := &jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: sampler,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans:           true,
			LocalAgentHostPort: endpoint,
		},
	}

	tracer, closer, err := cfg.NewTracer(jaegercfg.Logger(jaeger.StdLogger))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init jaeger tracer: %w", err)
	}

	opentracing.SetGlobalTracer(tracer)
	return tracer, closer, nil
}

// StartClientSpan 为一次出站 HTTP 请求创建 client span，并把 span context
// 注入请求头，供服务端中间件提取。调用方负责 span.Finish()。
func StartClientSpan(req *http.Request, operation string) opentracing.Span {
	tracer := opentracing.GlobalTracer()

	var opts []opentracing.StartSpanOption
	if parent := opentracing.SpanFromContext(req.Context()); parent != nil {
		opts = append(opts, opentracing.ChildOf(parent.Context()))
	}

	span := tracer.StartSpan(operation, opts...)
	ext.SpanKindRPCClient.Set(span)
	ext.HTTPMethod.Set(span, req.Method)
	ext.HTTPUrl.Set(span, req.URL.String())

	// 注入失败只影响链路串联，不影响请求本身
	_ = tracer.Inject(span.Context(), opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(req.Header))
	return span
}

// ExtractServerSpan 从入站 HTTP 请求头提取上游 span context 并创建 server span。
// 提取不到上游时退化为新的根 span。调用方负责 span.Finish()。
func ExtractServerSpan(req *http.Request, operation string) opentracing.Span {
	tracer := opentracing.GlobalTracer()

	var opts []opentracing.StartSpanOption
	if sc, err := tracer.Extract(opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(req.Header)); err == nil {
		opts = append(opts, ext.RPCServerOption(sc))
	}

	span := tracer.StartSpan(operation, opts...)
	ext.SpanKindRPCServer.Set(span)
	ext.HTTPMethod.Set(span, req.Method)
	ext.HTTPUrl.Set(span, req.URL.Path)
	return span
}
