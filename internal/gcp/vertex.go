package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
)

// --- Advisor Model Prompts ---
const AdvisorSystemPrompt = "You are a prepress specialist at a commercial print shop. You explain print-readiness problems in documents to customers who are not print professionals, and you tell them exactly how to fix each one before the file goes to press."
const AdvisorUserPrompt = `You will be given the result of an automated print-readiness check of a customer's document, as JSON.

Write a short remediation note for the customer in Markdown:

1.  **Verdict**: One sentence saying whether the file can be printed as-is.
2.  **Problems**: For each quality issue, explain what it means in plain language and how to fix it in a typical layout application (for example: embed fonts when exporting, replace or rescale low resolution images, use a single page size, remove page rotation).
3.  **Production notes**: Mention the recommended printing method, paper and color mode, and any finishing steps such as spot color processing or transparency flattening.
4.  **Caveats**: If the report lists diagnostics, say which checks could not be completed and that they should be verified manually.

Only use facts present in the JSON. Do not invent measurements. Do not include any preamble and do not wrap the note in code fences.`

// VertexClient holds the pre-configured generative models.
type VertexClient struct {
	AdvisorModel *genai.GenerativeModel
	baseClient   *genai.Client
}

// NewVertexClient creates a new client holding all necessary models.
func NewVertexClient(ctx context.Context, projectID, region string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	advisorModel := baseClient.GenerativeModel("gemini-1.5-pro")
	advisorModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(AdvisorSystemPrompt)},
	}
	advisorModel.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](0.2),
		MaxOutputTokens: genai.Ptr[int32](2048),
	}

	return &VertexClient{
		AdvisorModel: advisorModel,
		baseClient:   baseClient,
	}, nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
