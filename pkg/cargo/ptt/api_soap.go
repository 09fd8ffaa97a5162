package ptt

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"text/template"
	"time"
)

// SOAPAPIClient is the production implementation of APIClient using the
// PTT Kargo SOAP endpoint.
type SOAPAPIClient struct {
	endpointURL string
	customerID  string
	username    string
	password    string
	httpClient  *http.Client
}

// SOAPAPIClientConfig holds configuration for the SOAP client.
// InsecureSkipVerify disables TLS certificate verification; some PTT
// test endpoints serve certificates that fail chain validation. It must
// stay off against production.
type SOAPAPIClientConfig struct {
	EndpointURL        string
	CustomerID         string
	Username           string
	Password           string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// NewSOAPAPIClient creates a new SOAP-based API client for production use.
func NewSOAPAPIClient(cfg SOAPAPIClientConfig) *SOAPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := &http.Client{Timeout: timeout}
	if cfg.InsecureSkipVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &SOAPAPIClient{
		endpointURL: cfg.EndpointURL,
		customerID:  cfg.CustomerID,
		username:    cfg.Username,
		password:    cfg.Password,
		httpClient:  httpClient,
	}
}

// CreateAcceptance registers a shipment with PTT.
func (c *SOAPAPIClient) CreateAcceptance(ctx context.Context, req *AcceptanceRequest) (*AcceptanceResponse, error) {
	body, err := c.buildAcceptanceBody(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.doSOAPRequest(ctx, "kabulEkle2", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseSOAPError(resp)
	}

	env, err := c.decodeEnvelope(resp.Body)
	if err != nil {
		return nil, err
	}
	if env.Body.KabulEkleResponse == nil {
		return nil, &APIError{Code: "PARSE_ERROR", Description: "No kabulEkle2 result in response"}
	}

	r := env.Body.KabulEkleResponse.Return
	return &AcceptanceResponse{
		HataKodu: parseNullableInt(r.HataKodu),
		Aciklama: strings.TrimSpace(r.Aciklama),
		Barcode:  strings.TrimSpace(r.BarkodNo),
	}, nil
}

// DeleteBarcode cancels a shipment with PTT.
func (c *SOAPAPIClient) DeleteBarcode(ctx context.Context, barcode string) (*DeleteResponse, error) {
	body, err := c.buildDeleteBody(barcode)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.doSOAPRequest(ctx, "barkodVeriSil", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseSOAPError(resp)
	}

	env, err := c.decodeEnvelope(resp.Body)
	if err != nil {
		return nil, err
	}
	if env.Body.BarkodSilResponse == nil {
		return nil, &APIError{Code: "PARSE_ERROR", Description: "No barkodVeriSil result in response"}
	}

	r := env.Body.BarkodSilResponse.Return
	return &DeleteResponse{
		HataKodu: parseNullableInt(r.HataKodu),
		Aciklama: strings.TrimSpace(r.Aciklama),
	}, nil
}

// QueryShipment fetches shipment state from PTT.
func (c *SOAPAPIClient) QueryShipment(ctx context.Context, barcode string) (*QueryResponse, error) {
	body, err := c.buildQueryBody(barcode)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.doSOAPRequest(ctx, "gonderiSorgu2", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseSOAPError(resp)
	}

	env, err := c.decodeEnvelope(resp.Body)
	if err != nil {
		return nil, err
	}
	if env.Body.GonderiSorguResponse == nil {
		return nil, &APIError{Code: "PARSE_ERROR", Description: "No gonderiSorgu2 result in response"}
	}

	r := env.Body.GonderiSorguResponse.Return
	if r.DonguSayisi == "0" || strings.TrimSpace(r.Barkod) == "" {
		return &QueryResponse{Found: false}, nil
	}

	events := make([]ShipmentEvent, 0, len(r.Olaylar))
	for _, o := range r.Olaylar {
		events = append(events, ShipmentEvent{
			Date:        strings.TrimSpace(o.Tarih),
			Description: strings.TrimSpace(o.Islem),
			Unit:        strings.TrimSpace(o.Birim),
		})
	}

	return &QueryResponse{
		Found: true,
		Record: ShipmentRecord{
			Barcode:      strings.TrimSpace(r.Barkod),
			StatusText:   strings.TrimSpace(r.Konum),
			TesAlan:      strings.TrimSpace(r.TesAlan),
			DeliveryDate: strings.TrimSpace(r.TesTarihi),
			Events:       events,
		},
	}, nil
}

// ============================================================================
// SOAP Request Helpers
// ============================================================================

func (c *SOAPAPIClient) doSOAPRequest(ctx context.Context, action string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", fmt.Sprintf("http://tempuri.org/%s", action))

	return c.httpClient.Do(req)
}

const soapEnvelopeTemplate = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/" xmlns:tem="http://tempuri.org/">
  <soap:Body>
    {{.Body}}
  </soap:Body>
</soap:Envelope>`

func (c *SOAPAPIClient) buildAcceptanceBody(req *AcceptanceRequest) ([]byte, error) {
	bodyTmpl := `<tem:kabulEkle2>
      <tem:mustId>{{.CustomerID}}</tem:mustId>
      <tem:kulAd>{{.Username}}</tem:kulAd>
      <tem:sifre>{{.Password}}</tem:sifre>
      <tem:dosyaAdi>{{.Req.Barcode}}</tem:dosyaAdi>
      <tem:gonderiTip>KD</tem:gonderiTip>
      <tem:barkodNo>{{.Req.Barcode}}</tem:barkodNo>
      <tem:aliciAdi>{{.Req.ReceiverName}}</tem:aliciAdi>
      <tem:aliciAdresi>{{.Req.Address}}</tem:aliciAdresi>
      <tem:aliciIl>{{.Req.City}}</tem:aliciIl>
      <tem:aliciIlce>{{.Req.District}}</tem:aliciIlce>
      <tem:aliciTel>{{.Req.Phone}}</tem:aliciTel>
      <tem:agirlik>{{.Req.WeightGrams}}</tem:agirlik>
      <tem:desi>{{.Req.Desi}}</tem:desi>
      <tem:adet>{{.Req.PieceCount}}</tem:adet>
      <tem:aciklama>{{.Req.Description}}</tem:aciklama>
    </tem:kabulEkle2>`

	data := struct {
		CustomerID string
		Username   string
		Password   string
		Req        *AcceptanceRequest
	}{c.customerID, c.username, c.password, req}

	return c.buildEnvelope(bodyTmpl, data)
}

func (c *SOAPAPIClient) buildDeleteBody(barcode string) ([]byte, error) {
	bodyTmpl := `<tem:barkodVeriSil>
      <tem:mustId>{{.CustomerID}}</tem:mustId>
      <tem:kulAd>{{.Username}}</tem:kulAd>
      <tem:sifre>{{.Password}}</tem:sifre>
      <tem:barkodNo>{{.Barcode}}</tem:barkodNo>
    </tem:barkodVeriSil>`

	data := struct {
		CustomerID string
		Username   string
		Password   string
		Barcode    string
	}{c.customerID, c.username, c.password, barcode}

	return c.buildEnvelope(bodyTmpl, data)
}

func (c *SOAPAPIClient) buildQueryBody(barcode string) ([]byte, error) {
	bodyTmpl := `<tem:gonderiSorgu2>
      <tem:mustId>{{.CustomerID}}</tem:mustId>
      <tem:kulAd>{{.Username}}</tem:kulAd>
      <tem:sifre>{{.Password}}</tem:sifre>
      <tem:barkodNo>{{.Barcode}}</tem:barkodNo>
    </tem:gonderiSorgu2>`

	data := struct {
		CustomerID string
		Username   string
		Password   string
		Barcode    string
	}{c.customerID, c.username, c.password, barcode}

	return c.buildEnvelope(bodyTmpl, data)
}

func (c *SOAPAPIClient) buildEnvelope(bodyTemplate string, data interface{}) ([]byte, error) {
	bodyTmpl, err := template.New("body").Parse(bodyTemplate)
	if err != nil {
		return nil, err
	}

	var bodyBuf bytes.Buffer
	if err := bodyTmpl.Execute(&bodyBuf, data); err != nil {
		return nil, err
	}

	envTmpl, err := template.New("envelope").Parse(soapEnvelopeTemplate)
	if err != nil {
		return nil, err
	}

	envData := struct {
		Body string
	}{Body: bodyBuf.String()}

	var envBuf bytes.Buffer
	if err := envTmpl.Execute(&envBuf, envData); err != nil {
		return nil, err
	}

	return envBuf.Bytes(), nil
}

// ============================================================================
// SOAP Response Parsers
// ============================================================================

type soapEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    soapBody `xml:"Body"`
}

type soapBody struct {
	Fault                *soapFault            `xml:"Fault,omitempty"`
	KabulEkleResponse    *kabulEkleResponse    `xml:"kabulEkle2Response,omitempty"`
	BarkodSilResponse    *barkodSilResponse    `xml:"barkodVeriSilResponse,omitempty"`
	GonderiSorguResponse *gonderiSorguResponse `xml:"gonderiSorgu2Response,omitempty"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

type kabulEkleResponse struct {
	Return kabulEkleReturn `xml:"return"`
}

// kabulEkleReturn keeps hataKodu as a raw string: PTT renders success as
// either <hataKodu>0</hataKodu> or a nil element.
type kabulEkleReturn struct {
	HataKodu string `xml:"hataKodu"`
	Aciklama string `xml:"aciklama"`
	BarkodNo string `xml:"barkodNo"`
}

type barkodSilResponse struct {
	Return barkodSilReturn `xml:"return"`
}

type barkodSilReturn struct {
	HataKodu string `xml:"hataKodu"`
	Aciklama string `xml:"aciklama"`
}

type gonderiSorguResponse struct {
	Return gonderiSorguReturn `xml:"return"`
}

type gonderiSorguReturn struct {
	Barkod      string         `xml:"barkod"`
	Konum       string         `xml:"konum"`
	TesAlan     string         `xml:"tesAlan"`
	TesTarihi   string         `xml:"tesTarihi"`
	DonguSayisi string         `xml:"donguSayisi"`
	Olaylar     []gonderiOlayi `xml:"olayList"`
}

type gonderiOlayi struct {
	Tarih string `xml:"tarih"`
	Islem string `xml:"islem"`
	Birim string `xml:"birim"`
}

func (c *SOAPAPIClient) parseSOAPError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var env soapEnvelope
	if err := xml.Unmarshal(body, &env); err == nil && env.Body.Fault != nil {
		return &APIError{
			Code:        env.Body.Fault.Code,
			Description: env.Body.Fault.String,
		}
	}

	return &APIError{
		Code:        fmt.Sprintf("HTTP_%d", resp.StatusCode),
		Description: string(body),
	}
}

func (c *SOAPAPIClient) decodeEnvelope(body io.Reader) (*soapEnvelope, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	var env soapEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if env.Body.Fault != nil {
		return nil, &APIError{
			Code:        env.Body.Fault.Code,
			Description: env.Body.Fault.String,
		}
	}

	return &env, nil
}

// parseNullableInt keeps the null/zero distinction out of the transport
// layer: an empty element stays nil, anything else parses as an int.
func parseNullableInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

var _ APIClient = (*SOAPAPIClient)(nil)
