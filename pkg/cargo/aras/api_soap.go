package aras

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
// Aras Kargo SOAP endpoint.
type SOAPAPIClient struct {
	endpointURL  string
	username     string
	password     string
	customerCode string
	httpClient   *http.Client
}

// SOAPAPIClientConfig holds configuration for the SOAP client.
type SOAPAPIClientConfig struct {
	EndpointURL  string
	Username     string
	Password     string
	CustomerCode string
	Timeout      time.Duration
}

// NewSOAPAPIClient creates a new SOAP-based API client for production use.
func NewSOAPAPIClient(cfg SOAPAPIClientConfig) *SOAPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &SOAPAPIClient{
		endpointURL:  cfg.EndpointURL,
		username:     cfg.Username,
		password:     cfg.Password,
		customerCode: cfg.CustomerCode,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SaveOrder registers a shipment order with Aras.
func (c *SOAPAPIClient) SaveOrder(ctx context.Context, req *SaveOrderRequest) (*SaveOrderResponse, error) {
	body, err := c.buildSaveOrderBody(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.doSOAPRequest(ctx, "SaveOrder", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseSOAPError(resp)
	}

	return c.parseSaveOrderResponse(resp.Body)
}

// DeleteOrder cancels a shipment order with Aras.
func (c *SOAPAPIClient) DeleteOrder(ctx context.Context, integrationCode string) (*DeleteOrderResponse, error) {
	body, err := c.buildDeleteOrderBody(integrationCode)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.doSOAPRequest(ctx, "DeleteOrder", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseSOAPError(resp)
	}

	return c.parseDeleteOrderResponse(resp.Body)
}

// QueryShipment fetches shipment movement records from Aras.
func (c *SOAPAPIClient) QueryShipment(ctx context.Context, integrationCode string) (*QueryResponse, error) {
	body, err := c.buildQueryBody(integrationCode)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.doSOAPRequest(ctx, "GetQueryXML", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseSOAPError(resp)
	}

	return c.parseQueryResponse(resp.Body)
}

// ============================================================================
// SOAP Request Helpers
// ============================================================================

func (c *SOAPAPIClient) doSOAPRequest(ctx context.Context, action string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Aras embeds credentials inside the body; the transport itself is plain.
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

func (c *SOAPAPIClient) buildSaveOrderBody(req *SaveOrderRequest) ([]byte, error) {
	bodyTmpl := `<tem:SaveOrder>
      <tem:orderInfo>
        <tem:Order>
          <tem:UserName>{{.Username}}</tem:UserName>
          <tem:Password>{{.Password}}</tem:Password>
          <tem:CustomerCode>{{.CustomerCode}}</tem:CustomerCode>
          <tem:IntegrationCode>{{.Req.IntegrationCode}}</tem:IntegrationCode>
          <tem:InvoiceNumber>{{.Req.InvoiceNumber}}</tem:InvoiceNumber>
          <tem:ReceiverName>{{.Req.ReceiverName}}</tem:ReceiverName>
          <tem:ReceiverAddress>{{.Req.ReceiverAddress}}</tem:ReceiverAddress>
          <tem:ReceiverCityName>{{.Req.ReceiverCity}}</tem:ReceiverCityName>
          <tem:ReceiverTownName>{{.Req.ReceiverDistrict}}</tem:ReceiverTownName>
          <tem:ReceiverPhone1>{{.Req.ReceiverPhone}}</tem:ReceiverPhone1>
          <tem:PieceCount>{{.Req.PieceCount}}</tem:PieceCount>
          <tem:PayOrType>{{.Req.PayOrType}}</tem:PayOrType>
          <tem:Description>{{.Req.Description}}</tem:Description>
        </tem:Order>
      </tem:orderInfo>
      <tem:userName>{{.Username}}</tem:userName>
      <tem:password>{{.Password}}</tem:password>
    </tem:SaveOrder>`

	data := struct {
		Username     string
		Password     string
		CustomerCode string
		Req          *SaveOrderRequest
	}{c.username, c.password, c.customerCode, req}

	return c.buildEnvelope(bodyTmpl, data)
}

func (c *SOAPAPIClient) buildDeleteOrderBody(integrationCode string) ([]byte, error) {
	bodyTmpl := `<tem:DeleteOrder>
      <tem:integrationCode>{{.IntegrationCode}}</tem:integrationCode>
      <tem:userName>{{.Username}}</tem:userName>
      <tem:password>{{.Password}}</tem:password>
      <tem:customerCode>{{.CustomerCode}}</tem:customerCode>
    </tem:DeleteOrder>`

	data := struct {
		Username        string
		Password        string
		CustomerCode    string
		IntegrationCode string
	}{c.username, c.password, c.customerCode, integrationCode}

	return c.buildEnvelope(bodyTmpl, data)
}

func (c *SOAPAPIClient) buildQueryBody(integrationCode string) ([]byte, error) {
	// QueryType 12 selects movement records keyed by integration code.
	bodyTmpl := `<tem:GetQueryXML>
      <tem:loginInfo>&lt;LoginInfo&gt;&lt;UserName&gt;{{.Username}}&lt;/UserName&gt;&lt;Password&gt;{{.Password}}&lt;/Password&gt;&lt;CustomerCode&gt;{{.CustomerCode}}&lt;/CustomerCode&gt;&lt;/LoginInfo&gt;</tem:loginInfo>
      <tem:queryInfo>&lt;QueryInfo&gt;&lt;QueryType&gt;12&lt;/QueryType&gt;&lt;IntegrationCode&gt;{{.IntegrationCode}}&lt;/IntegrationCode&gt;&lt;/QueryInfo&gt;</tem:queryInfo>
    </tem:GetQueryXML>`

	data := struct {
		Username        string
		Password        string
		CustomerCode    string
		IntegrationCode string
	}{c.username, c.password, c.customerCode, integrationCode}

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
	Fault               *soapFault           `xml:"Fault,omitempty"`
	SaveOrderResponse   *saveOrderResponse   `xml:"SaveOrderResponse,omitempty"`
	DeleteOrderResponse *deleteOrderResponse `xml:"DeleteOrderResponse,omitempty"`
	GetQueryXMLResponse *getQueryXMLResponse `xml:"GetQueryXMLResponse,omitempty"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

type saveOrderResponse struct {
	Result orderResult `xml:"SaveOrderResult>OrderResultInfo"`
}

type deleteOrderResponse struct {
	Result orderResult `xml:"DeleteOrderResult>OrderResultInfo"`
}

type orderResult struct {
	Result         string `xml:"Result"`
	Message        string `xml:"ResultMessage"`
	TrackingNumber string `xml:"TrackingNumber"`
}

type getQueryXMLResponse struct {
	// The tracking payload is an XML document embedded as a string.
	Result string `xml:"GetQueryXMLResult"`
}

// queryDocument is the inner document carried by GetQueryXMLResult.
type queryDocument struct {
	XMLName xml.Name      `xml:"QueryResult"`
	Rows    []queryRowXML `xml:"Cargo"`
}

type queryRowXML struct {
	StatusCode     string `xml:"DURUM_KODU"`
	TypeCode       string `xml:"TIP_KODU"`
	TrackingNumber string `xml:"KARGO_TAKIP_NO"`
	StatusText     string `xml:"DURUMU"`
	WeightDesi     string `xml:"KG_DESI"`
	Amount         string `xml:"TUTAR"`
	EventDate      string `xml:"ISLEM_TARIHI"`
	Unit           string `xml:"BIRIM"`
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

func (c *SOAPAPIClient) parseSaveOrderResponse(body io.Reader) (*SaveOrderResponse, error) {
	env, err := c.decodeEnvelope(body)
	if err != nil {
		return nil, err
	}

	if env.Body.SaveOrderResponse == nil {
		return nil, &APIError{
			Code:        "PARSE_ERROR",
			Description: "No SaveOrder result in response",
		}
	}

	r := env.Body.SaveOrderResponse.Result
	return &SaveOrderResponse{
		Result:         parseInt(r.Result),
		Message:        r.Message,
		TrackingNumber: r.TrackingNumber,
	}, nil
}

func (c *SOAPAPIClient) parseDeleteOrderResponse(body io.Reader) (*DeleteOrderResponse, error) {
	env, err := c.decodeEnvelope(body)
	if err != nil {
		return nil, err
	}

	if env.Body.DeleteOrderResponse == nil {
		return nil, &APIError{
			Code:        "PARSE_ERROR",
			Description: "No DeleteOrder result in response",
		}
	}

	r := env.Body.DeleteOrderResponse.Result
	return &DeleteOrderResponse{
		Result:  parseInt(r.Result),
		Message: r.Message,
	}, nil
}

func (c *SOAPAPIClient) parseQueryResponse(body io.Reader) (*QueryResponse, error) {
	env, err := c.decodeEnvelope(body)
	if err != nil {
		return nil, err
	}

	if env.Body.GetQueryXMLResponse == nil {
		return nil, &APIError{
			Code:        "PARSE_ERROR",
			Description: "No query result in response",
		}
	}

	inner := strings.TrimSpace(env.Body.GetQueryXMLResponse.Result)
	if inner == "" {
		// No movement yet: the branch has not scanned the parcel.
		return &QueryResponse{}, nil
	}

	var doc queryDocument
	if err := xml.Unmarshal([]byte(inner), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tracking document: %w", err)
	}

	records := make([]QueryRecord, len(doc.Rows))
	for i, row := range doc.Rows {
		records[i] = QueryRecord{
			StatusCode:     parseInt(row.StatusCode),
			TypeCode:       parseInt(row.TypeCode),
			TrackingNumber: row.TrackingNumber,
			StatusText:     row.StatusText,
			WeightDesi:     parseFloat(row.WeightDesi),
			Amount:         parseFloat(row.Amount),
			EventDate:      row.EventDate,
			Unit:           row.Unit,
		}
	}

	return &QueryResponse{Records: records}, nil
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
	// Aras reports decimals with a comma.
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

var _ APIClient = (*SOAPAPIClient)(nil)
