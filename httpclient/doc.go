// Package httpclient is the HTTP client the sidecar providers share. It
// knows how to stream an audio file as multipart/form-data, decode JSON
// answers and probe a health path, and it turns every failure into an
// EXTERNAL_SERVICE_ERROR AppError naming the sidecar.
//
//	c, err := httpclient.New("whisper", httpclient.Config{BaseURL: "http://localhost:8387"})
//	var out result
//	err = c.PostMultipart(ctx, "/transcribe", &httpclient.MultipartBody{
//	    Fields: map[string]string{"model": "base"},
//	    Files:  []httpclient.FileField{{FieldName: "audio", Path: audioPath}},
//	}, &out)
package httpclient
