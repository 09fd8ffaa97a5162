package mng

import (
	"bytes"
	"context"
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
// MNG Kargo SOAP endpoint.
type SOAPAPIClient struct {
	endpointURL string
	customerNo  string
	username    string
	password    string
	httpClient  *http.Client
}

// SOAPAPIClientConfig holds configuration for the SOAP client.
type SOAPAPIClientConfig struct {
	EndpointURL string
	CustomerNo  string
	Username    string
	Password    string
	Timeout     time.Duration
}

// NewSOAPAPIClient creates a new SOAP-based API client for production use.
func NewSOAPAPIClient(cfg SOAPAPIClientConfig) *SOAPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &SOAPAPIClient{
		endpointURL: cfg.EndpointURL,
		customerNo:  cfg.CustomerNo,
		username:    cfg.Username,
		password:    cfg.Password,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateOrder registers an order with MNG.
func (c *SOAPAPIClient) CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	body, err := c.buildOrderBody(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.doSOAPRequest(ctx, "SiparisKayit_C2C", body)
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
	if env.Body.SiparisKayitResponse == nil {
		return nil, &APIError{Code: "PARSE_ERROR", Description: "No SiparisKayit result in response"}
	}

	return &OrderResponse{Result: strings.TrimSpace(env.Body.SiparisKayitResponse.Result)}, nil
}

// CancelOrder cancels an order with MNG.
func (c *SOAPAPIClient) CancelOrder(ctx context.Context, orderNo string) (*CancelResponse, error) {
	body, err := c.buildCancelBody(orderNo)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.doSOAPRequest(ctx, "SiparisIptali_C2C", body)
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
	if env.Body.SiparisIptaliResponse == nil {
		return nil, &APIError{Code: "PARSE_ERROR", Description: "No SiparisIptali result in response"}
	}

	return &CancelResponse{Result: strings.TrimSpace(env.Body.SiparisIptaliResponse.Result)}, nil
}

// QueryOrder fetches order state from MNG.
func (c *SOAPAPIClient) QueryOrder(ctx context.Context, orderNo string) (*QueryResponse, error) {
	body, err := c.buildQueryBody(orderNo)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.doSOAPRequest(ctx, "GelecekIadeSiparisKontrol", body)
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
	if env.Body.GelecekIadeResponse == nil {
		return nil, &APIError{Code: "PARSE_ERROR", Description: "No query result in response"}
	}

	table := env.Body.GelecekIadeResponse.Result.DataSet.Table1
	if table == nil {
		return &QueryResponse{Found: false}, nil
	}

	return &QueryResponse{
		Found: true,
		Record: QueryRecord{
			SiparisNo:     table.SiparisNo,
			KargoNo:       table.KargoNo,
			Durum:         parseInt(table.Durum),
			DurumAciklama: table.DurumAciklama,
			TeslimAlan:    table.TeslimAlan,
			TeslimTarihi:  table.TeslimTarihi,
			Kg:            parseFloat(table.Kg),
			Desi:          parseFloat(table.Desi),
			Sehir:         table.Sehir,
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

func (c *SOAPAPIClient) buildOrderBody(req *OrderRequest) ([]byte, error) {
	bodyTmpl := `<tem:SiparisKayit_C2C>
      <tem:pMusteriNo>{{.CustomerNo}}</tem:pMusteriNo>
      <tem:pKullaniciAdi>{{.Username}}</tem:pKullaniciAdi>
      <tem:pSifre>{{.Password}}</tem:pSifre>
      <tem:pSiparisNo>{{.Req.SiparisNo}}</tem:pSiparisNo>
      <tem:pAliciAdi>{{.Req.AliciAdi}}</tem:pAliciAdi>
      <tem:pAliciAdresi>{{.Req.AliciAdresi}}</tem:pAliciAdresi>
      <tem:pAliciIl>{{.Req.AliciIl}}</tem:pAliciIl>
      <tem:pAliciIlce>{{.Req.AliciIlce}}</tem:pAliciIlce>
      <tem:pAliciTel>{{.Req.AliciTel}}</tem:pAliciTel>
      <tem:pOdemeSekli>{{.Req.OdemeSekli}}</tem:pOdemeSekli>
      <tem:pIcerik>{{.Req.Icerik}}</tem:pIcerik>
      <tem:pFaturaSeriNo>{{.Req.FaturaSeriNo}}</tem:pFaturaSeriNo>
      <tem:pParcaBilgileri>{{range .Req.Pieces}}<tem:Parca><tem:Kg>{{.Kg}}</tem:Kg><tem:Desi>{{.Desi}}</tem:Desi><tem:Adet>{{.Adet}}</tem:Adet></tem:Parca>{{end}}</tem:pParcaBilgileri>
    </tem:SiparisKayit_C2C>`

	data := struct {
		CustomerNo string
		Username   string
		Password   string
		Req        *OrderRequest
	}{c.customerNo, c.username, c.password, req}

	return c.buildEnvelope(bodyTmpl, data)
}

func (c *SOAPAPIClient) buildCancelBody(orderNo string) ([]byte, error) {
	bodyTmpl := `<tem:SiparisIptali_C2C>
      <tem:pMusteriNo>{{.CustomerNo}}</tem:pMusteriNo>
      <tem:pKullaniciAdi>{{.Username}}</tem:pKullaniciAdi>
      <tem:pSifre>{{.Password}}</tem:pSifre>
      <tem:pSiparisNo>{{.OrderNo}}</tem:pSiparisNo>
    </tem:SiparisIptali_C2C>`

	data := struct {
		CustomerNo string
		Username   string
		Password   string
		OrderNo    string
	}{c.customerNo, c.username, c.password, orderNo}

	return c.buildEnvelope(bodyTmpl, data)
}

func (c *SOAPAPIClient) buildQueryBody(orderNo string) ([]byte, error) {
	bodyTmpl := `<tem:GelecekIadeSiparisKontrol>
      <tem:pMusteriNo>{{.CustomerNo}}</tem:pMusteriNo>
      <tem:pKullaniciAdi>{{.Username}}</tem:pKullaniciAdi>
      <tem:pSifre>{{.Password}}</tem:pSifre>
      <tem:pSiparisNo>{{.OrderNo}}</tem:pSiparisNo>
    </tem:GelecekIadeSiparisKontrol>`

	data := struct {
		CustomerNo string
		Username   string
		Password   string
		OrderNo    string
	}{c.customerNo, c.username, c.password, orderNo}

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
	Fault                 *soapFault             `xml:"Fault,omitempty"`
	SiparisKayitResponse  *siparisKayitResponse  `xml:"SiparisKayit_C2CResponse,omitempty"`
	SiparisIptaliResponse *siparisIptaliResponse `xml:"SiparisIptali_C2CResponse,omitempty"`
	GelecekIadeResponse   *gelecekIadeResponse   `xml:"GelecekIadeSiparisKontrolResponse,omitempty"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

type siparisKayitResponse struct {
	Result string `xml:"SiparisKayit_C2CResult"`
}

type siparisIptaliResponse struct {
	Result string `xml:"SiparisIptali_C2CResult"`
}

// gelecekIadeResponse carries a diffgram dataset inside the SOAP any field.
type gelecekIadeResponse struct {
	Result gelecekIadeResult `xml:"GelecekIadeSiparisKontrolResult"`
}

type gelecekIadeResult struct {
	DataSet newDataSet `xml:"diffgram>NewDataSet"`
}

type newDataSet struct {
	Table1 *table1 `xml:"Table1"`
}

type table1 struct {
	SiparisNo     string `xml:"SIPARIS_NO"`
	KargoNo       string `xml:"KARGO_NO"`
	Durum         string `xml:"DURUM"`
	DurumAciklama string `xml:"DURUM_ACIKLAMA"`
	TeslimAlan    string `xml:"TESLIM_ALAN"`
	TeslimTarihi  string `xml:"TESLIM_TARIHI"`
	Kg            string `xml:"KG"`
	Desi          string `xml:"DESI"`
	Sehir         string `xml:"SEHIR"`
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

func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func parseFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

var _ APIClient = (*SOAPAPIClient)(nil)
