package observability

// Shared attribute names so log output stays greppable across packages.
const (
	AttrModel        = "llm.model"
	AttrModelFamily  = "llm.model_family"
	AttrEndpoint     = "llm.endpoint"
	AttrFinishReason = "llm.finish_reason"

	AttrRequestMessages = "request.messages"
	AttrRequestTools    = "request.tools"
	AttrRequestStream   = "request.stream"

	AttrToolCallIndex = "toolcall.index"
	AttrToolCallName  = "toolcall.name"

	AttrEventType = "event.type"
	AttrErrorKind = "error.kind"

	AttrBatchSize    = "batch.size"
	AttrBatchWorkers = "batch.workers"

	AttrHTTPMethod     = "http.method"
	AttrHTTPURL        = "http.url"
	AttrHTTPStatusCode = "http.status_code"
)
