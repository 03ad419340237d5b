package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/h2g2bob/ippserver/internal/job"
)

// pc2paperBaseURL is the postal service's API root, matching the
// original's hardcoded endpoint.
const pc2paperBaseURL = "https://rest.pc2paper.co.uk/v2.1"

// sourceClient identifies this software to the postal API, matching the
// original's SOURCE_CLIENT constant.
const sourceClient = "h2g2bob ipp-server"

// PostalConfig is the pc2paper account/default-mailing config, loaded
// from a JSON file via the "pc2paper --config <file>" CLI verb —
// re-expressing the original's from_config_file loader as a Go
// JSON-tagged struct.
type PostalConfig struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	SenderName     string `json:"sender_name"`
	SenderAddress1 string `json:"sender_address1"`
	SenderAddress2 string `json:"sender_address2"`
	SenderCity     string `json:"sender_city"`
	SenderPostcode string `json:"sender_postcode"`
	SenderCountry  string `json:"sender_country"` // ISO country code, see countryCodes
	RecipientName  string `json:"recipient_name"`
	RecipientAddress1 string `json:"recipient_address1"`
	RecipientAddress2 string `json:"recipient_address2"`
	RecipientCity     string `json:"recipient_city"`
	RecipientPostcode string `json:"recipient_postcode"`
	RecipientCountry  string `json:"recipient_country"`
	Postage        string `json:"postage"`   // standard/first-class/etc, see postageCodes
	PaperSize      string `json:"paper_size"` // a4/a5/etc, see paperCodes
	Envelope       string `json:"envelope"`   // see envelopeCodes
	Colour         bool   `json:"colour"`
}

// LoadPostalConfig reads a pc2paper JSON config file.
func LoadPostalConfig(path string) (*PostalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sink: reading pc2paper config: %w", err)
	}
	var cfg PostalConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("sink: parsing pc2paper config: %w", err)
	}
	return &cfg, nil
}

// countryCodes, postageCodes, paperCodes and envelopeCodes mirror the
// lookup tables pc2paper.py uses to translate human-readable config
// values into the numeric codes the postal API expects.
var (
	countryCodes = map[string]int{
		"GB": 1, "US": 2, "FR": 3, "DE": 4, "IE": 5, "ES": 6, "IT": 7,
	}
	postageCodes = map[string]int{
		"standard": 1, "first-class": 2, "signed-for": 3, "international": 4,
	}
	paperCodes = map[string]int{
		"a4": 1, "a5": 2, "letter": 3,
	}
	envelopeCodes = map[string]int{
		"c5": 1, "c4": 2, "dl": 3,
	}
)

// PostalSink uploads a job's PDF document to a postal printing service
// and submits it for letter delivery, following pc2paper.py's two-call
// protocol: UploadDocument, then SendSubmitLetterForPosting.
type PostalSink struct {
	Config *PostalConfig
	Client *http.Client
}

func (s PostalSink) httpClient() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return &http.Client{Timeout: 60 * time.Second}
}

func (s PostalSink) Process(ctx context.Context, j *job.Job) error {
	filename := postalFilename(j)

	documentID, err := s.uploadDocument(ctx, filename, j.Data)
	if err != nil {
		return fmt.Errorf("sink: pc2paper upload for job %d: %w", j.ID, err)
	}
	if err := s.submitForPosting(ctx, documentID); err != nil {
		return fmt.Errorf("sink: pc2paper submit for job %d: %w", j.ID, err)
	}
	return nil
}

func postalFilename(j *job.Job) string {
	media := j.Attributes["media"]
	if media == "" {
		media = "letter"
	}
	return fmt.Sprintf("%s-%d.pdf", media, time.Now().Unix())
}

type uploadDocumentResponse struct {
	DocumentID string `json:"document_id"`
}

func (s PostalSink) uploadDocument(ctx context.Context, filename string, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pc2paperBaseURL+"/documents", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("X-Source-Client", sourceClient)
	req.Header.Set("X-Document-Name", filename)
	req.SetBasicAuth(s.Config.Username, s.Config.Password)

	resp, err := s.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload returned status %d", resp.StatusCode)
	}
	var body uploadDocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.DocumentID, nil
}

type submitLetterRequest struct {
	DocumentID        string `json:"document_id"`
	SenderName        string `json:"sender_name"`
	SenderAddress1    string `json:"sender_address1"`
	SenderAddress2    string `json:"sender_address2,omitempty"`
	SenderCity        string `json:"sender_city"`
	SenderPostcode    string `json:"sender_postcode"`
	SenderCountry     int    `json:"sender_country"`
	RecipientName     string `json:"recipient_name"`
	RecipientAddress1 string `json:"recipient_address1"`
	RecipientAddress2 string `json:"recipient_address2,omitempty"`
	RecipientCity     string `json:"recipient_city"`
	RecipientPostcode string `json:"recipient_postcode"`
	RecipientCountry  int    `json:"recipient_country"`
	Postage           int    `json:"postage"`
	PaperSize         int    `json:"paper_size"`
	Envelope          int    `json:"envelope"`
	Colour            bool   `json:"colour"`
}

func (s PostalSink) submitForPosting(ctx context.Context, documentID string) error {
	c := s.Config
	body := submitLetterRequest{
		DocumentID:        documentID,
		SenderName:        c.SenderName,
		SenderAddress1:    c.SenderAddress1,
		SenderAddress2:    c.SenderAddress2,
		SenderCity:        c.SenderCity,
		SenderPostcode:    c.SenderPostcode,
		SenderCountry:     countryCodes[c.SenderCountry],
		RecipientName:     c.RecipientName,
		RecipientAddress1: c.RecipientAddress1,
		RecipientAddress2: c.RecipientAddress2,
		RecipientCity:     c.RecipientCity,
		RecipientPostcode: c.RecipientPostcode,
		RecipientCountry:  countryCodes[c.RecipientCountry],
		Postage:           postageCodes[c.Postage],
		PaperSize:         paperCodes[c.PaperSize],
		Envelope:          envelopeCodes[c.Envelope],
		Colour:            c.Colour,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pc2paperBaseURL+"/letters/submit", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Source-Client", sourceClient)
	req.SetBasicAuth(s.Config.Username, s.Config.Password)

	resp, err := s.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("submit returned status %d", resp.StatusCode)
	}
	return nil
}
