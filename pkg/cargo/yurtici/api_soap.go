package yurtici

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
// Yurtici Kargo NGI SOAP endpoint.
type SOAPAPIClient struct {
	endpointURL string
	username    string
	password    string
	language    string
	httpClient  *http.Client
}

// SOAPAPIClientConfig holds configuration for the SOAP client.
type SOAPAPIClientConfig struct {
	EndpointURL string
	Username    string
	Password    string
	Language    string
	Timeout     time.Duration
}

// NewSOAPAPIClient creates a new SOAP-based API client for production use.
func NewSOAPAPIClient(cfg SOAPAPIClientConfig) *SOAPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	language := cfg.Language
	if language == "" {
		language = "TR"
	}

	return &SOAPAPIClient{
		endpointURL: cfg.EndpointURL,
		username:    cfg.Username,
		password:    cfg.Password,
		language:    language,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateOrder registers a shipping order with Yurtici.
func (c *SOAPAPIClient) CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	body, err := c.buildCreateBody(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.doSOAPRequest(ctx, "createNgiShipmentWithAddress", body)
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
	if env.Body.CreateResponse == nil {
		return nil, &APIError{Code: "PARSE_ERROR", Description: "No createNgiShipmentWithAddress result in response"}
	}

	return orderResponse(env.Body.CreateResponse.Result), nil
}

// CancelOrder cancels a shipping order with Yurtici.
func (c *SOAPAPIClient) CancelOrder(ctx context.Context, cargoKey string) (*OrderResponse, error) {
	body, err := c.buildCancelBody(cargoKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.doSOAPRequest(ctx, "cancelNgiShipment", body)
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
	if env.Body.CancelResponse == nil {
		return nil, &APIError{Code: "PARSE_ERROR", Description: "No cancelNgiShipment result in response"}
	}

	return orderResponse(env.Body.CancelResponse.Result), nil
}

// QueryOrder fetches order state from Yurtici.
func (c *SOAPAPIClient) QueryOrder(ctx context.Context, cargoKey string) (*QueryResponse, error) {
	body, err := c.buildQueryBody(cargoKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.doSOAPRequest(ctx, "listInvDocumentInterfaceByReference", body)
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
	if env.Body.ListResponse == nil {
		return nil, &APIError{Code: "PARSE_ERROR", Description: "No list result in response"}
	}

	result := env.Body.ListResponse.Result
	// A non-zero outFlag on the query itself means "no record", not an
	// API failure.
	if strings.TrimSpace(result.OutFlag) != "0" || len(result.Documents) == 0 {
		return &QueryResponse{Found: false}, nil
	}

	doc := result.Documents[0]
	return &QueryResponse{
		Found: true,
		Record: DocumentRecord{
			CargoKey:         doc.CargoKey,
			TrackingNumber:   doc.DocID,
			OperationCode:    parseInt(doc.OperationCode),
			OperationMessage: doc.OperationMessage,
			ReceiverName:     doc.ReceiverName,
			DeliveryDate:     doc.DeliveryDate,
			Kg:               parseFloat(doc.TotalKg),
			Desi:             parseFloat(doc.TotalDesi),
			Unit:             doc.UnitName,
		},
	}, nil
}

// ============================================================================
// SOAP Request Helpers
// ============================================================================

const serviceNamespace = "http://yurticikargo.com.tr/ShippingOrderDispatcherServices"

func (c *SOAPAPIClient) doSOAPRequest(ctx context.Context, action string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", fmt.Sprintf("%s/%s", serviceNamespace, action))

	return c.httpClient.Do(req)
}

const soapEnvelopeTemplate = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/" xmlns:ngi="` + serviceNamespace + `">
  <soap:Body>
    {{.Body}}
  </soap:Body>
</soap:Envelope>`

func (c *SOAPAPIClient) buildCreateBody(req *OrderRequest) ([]byte, error) {
	bodyTmpl := `<ngi:createNgiShipmentWithAddress>
      <ngi:wsUserName>{{.Username}}</ngi:wsUserName>
      <ngi:wsPassword>{{.Password}}</ngi:wsPassword>
      <ngi:userLanguage>{{.Language}}</ngi:userLanguage>
      <ngi:ShippingOrderVO>
        <ngi:cargoKey>{{.Req.CargoKey}}</ngi:cargoKey>
        <ngi:invoiceKey>{{.Req.InvoiceKey}}</ngi:invoiceKey>
        <ngi:receiverCustName>{{.Req.ReceiverName}}</ngi:receiverCustName>
        <ngi:receiverAddress>{{.Req.Address}}</ngi:receiverAddress>
        <ngi:cityName>{{.Req.City}}</ngi:cityName>
        <ngi:townName>{{.Req.District}}</ngi:townName>
        <ngi:receiverPhone1>{{.Req.Phone}}</ngi:receiverPhone1>
        <ngi:kg>{{.Req.Kg}}</ngi:kg>
        <ngi:desi>{{.Req.Desi}}</ngi:desi>
        <ngi:cargoCount>{{.Req.Count}}</ngi:cargoCount>
        <ngi:description>{{.Req.Description}}</ngi:description>
      </ngi:ShippingOrderVO>
    </ngi:createNgiShipmentWithAddress>`

	data := struct {
		Username string
		Password string
		Language string
		Req      *OrderRequest
	}{c.username, c.password, c.language, req}

	return c.buildEnvelope(bodyTmpl, data)
}

func (c *SOAPAPIClient) buildCancelBody(cargoKey string) ([]byte, error) {
	bodyTmpl := `<ngi:cancelNgiShipment>
      <ngi:wsUserName>{{.Username}}</ngi:wsUserName>
      <ngi:wsPassword>{{.Password}}</ngi:wsPassword>
      <ngi:userLanguage>{{.Language}}</ngi:userLanguage>
      <ngi:cargoKeys>{{.CargoKey}}</ngi:cargoKeys>
    </ngi:cancelNgiShipment>`

	data := struct {
		Username string
		Password string
		Language string
		CargoKey string
	}{c.username, c.password, c.language, cargoKey}

	return c.buildEnvelope(bodyTmpl, data)
}

func (c *SOAPAPIClient) buildQueryBody(cargoKey string) ([]byte, error) {
	bodyTmpl := `<ngi:listInvDocumentInterfaceByReference>
      <ngi:wsUserName>{{.Username}}</ngi:wsUserName>
      <ngi:wsPassword>{{.Password}}</ngi:wsPassword>
      <ngi:userLanguage>{{.Language}}</ngi:userLanguage>
      <ngi:fields>{{.CargoKey}}</ngi:fields>
    </ngi:listInvDocumentInterfaceByReference>`

	data := struct {
		Username string
		Password string
		Language string
		CargoKey string
	}{c.username, c.password, c.language, cargoKey}

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
	Fault          *soapFault        `xml:"Fault,omitempty"`
	CreateResponse *shipmentResponse `xml:"createNgiShipmentWithAddressResponse,omitempty"`
	CancelResponse *shipmentResponse `xml:"cancelNgiShipmentResponse,omitempty"`
	ListResponse   *listResponse     `xml:"listInvDocumentInterfaceByReferenceResponse,omitempty"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

type shipmentResponse struct {
	Result shippingOrderResult `xml:"ShippingOrderResultVO"`
}

type shippingOrderResult struct {
	OutFlag   string `xml:"outFlag"`
	OutResult string `xml:"outResult"`
	JobID     string `xml:"jobId"`
}

type listResponse struct {
	Result listResult `xml:"ShippingDataResultVO"`
}

type listResult struct {
	OutFlag   string        `xml:"outFlag"`
	OutResult string        `xml:"outResult"`
	Documents []documentRow `xml:"shippingDataDetailVOArray"`
}

type documentRow struct {
	CargoKey         string `xml:"cargoKey"`
	DocID            string `xml:"docId"`
	OperationCode    string `xml:"operationCode"`
	OperationMessage string `xml:"operationMessage"`
	ReceiverName     string `xml:"receiverCustName"`
	DeliveryDate     string `xml:"deliveryDate"`
	TotalKg          string `xml:"totalKg"`
	TotalDesi        string `xml:"totalDesi"`
	UnitName         string `xml:"arrivalUnitName"`
}

func orderResponse(r shippingOrderResult) *OrderResponse {
	return &OrderResponse{
		OutFlag:   strings.TrimSpace(r.OutFlag),
		OutResult: strings.TrimSpace(r.OutResult),
		JobID:     strings.TrimSpace(r.JobID),
	}
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
