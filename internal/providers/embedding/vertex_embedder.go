package embedding

import (
	"context"
	"errors"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"
)

// VertexEmbedder calls the Vertex text-embedding publisher model through the
// prediction endpoint. The default model emits 768-dim vectors, matching the
// vector(768) column the questions are stored in.
type VertexEmbedder struct {
	c        *aiplatform.PredictionClient
	endpoint string
}

func NewVertexEmbedder(ctx context.Context, projectID, location, modelName string, opts ...option.ClientOption) (*VertexEmbedder, error) {
	if modelName == "" {
		modelName = "text-embedding-004"
	}

	regional := option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", location))
	c, err := aiplatform.NewPredictionClient(ctx, append([]option.ClientOption{regional}, opts...)...)
	if err != nil {
		return nil, err
	}

	return &VertexEmbedder{
		c: c,
		endpoint: fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s",
			projectID, location, modelName),
	}, nil
}

func (v *VertexEmbedder) Close() error { return v.c.Close() }

func (v *VertexEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	instances := make([]*structpb.Value, 0, len(texts))
	for _, t := range texts {
		inst, err := structpb.NewValue(map[string]any{
			"content":   t,
			"task_type": "RETRIEVAL_DOCUMENT",
		})
		if err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}

	resp, err := v.c.Predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:  v.endpoint,
		Instances: instances,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Predictions) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: want %d, got %d", len(texts), len(resp.Predictions))
	}

	out := make([][]float32, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		vec, err := predictionVector(p)
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, nil
}

// predictionVector digs {"embeddings": {"values": [...]}} out of one
// prediction.
func predictionVector(p *structpb.Value) ([]float32, error) {
	st := p.GetStructValue()
	if st == nil {
		return nil, errors.New("malformed embedding prediction")
	}
	emb := st.Fields["embeddings"].GetStructValue()
	if emb == nil {
		return nil, errors.New("malformed embedding prediction")
	}
	values := emb.Fields["values"].GetListValue().GetValues()
	if len(values) == 0 {
		return nil, errors.New("empty embedding vector")
	}

	vec := make([]float32, 0, len(values))
	for _, val := range values {
		vec = append(vec, float32(val.GetNumberValue()))
	}
	return vec, nil
}
