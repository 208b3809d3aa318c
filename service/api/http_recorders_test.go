package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/splitio/go-toolkit/v5/logging"

	"github.com/splitio/go-impressions/dtos"
)

func TestPostImpressions(t *testing.T) {
	logger := logging.NewLogger(&logging.LoggerOptions{})
	requestReceived := false

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestReceived = true
		if r.Method != "POST" || r.URL.Path != "/testImpressions/bulk" {
			t.Error("Invalid request. Should be POST to /testImpressions/bulk, got ", r.Method, " ", r.URL.Path)
		}

		if r.Header.Get("Authorization") != "Bearer some_api_key" {
			t.Error("Authorization header not set")
		}
		if r.Header.Get("SplitSDKVersion") != "1.0.0" {
			t.Error("SDK version header not set")
		}
		if r.Header.Get("SplitSDKMachineName") != "SOME_MACHINE_NAME" {
			t.Error("Machine name header not set")
		}

		body, _ := io.ReadAll(r.Body)
		var bulk []dtos.ImpressionsDTO
		if err := json.Unmarshal(body, &bulk); err != nil {
			t.Error("Error parsing json: ", err)
			return
		}
		if len(bulk) != 1 || bulk[0].TestName != "some_test" {
			t.Error("Incorrect bulk received")
			return
		}
		if len(bulk[0].KeyImpressions) != 2 ||
			bulk[0].KeyImpressions[0].KeyName != "some_key_1" ||
			bulk[0].KeyImpressions[1].KeyName != "some_key_2" {
			t.Error("Incorrect impressions received")
		}
	}))
	defer ts.Close()

	recorder := NewHTTPImpressionRecorder("some_api_key", ts.URL, 0, logger)
	metadata := dtos.Metadata{SDKVersion: "1.0.0", MachineIP: "127.0.0.1", MachineName: "SOME_MACHINE_NAME"}

	err := recorder.Record([]dtos.ImpressionsDTO{{
		TestName: "some_test",
		KeyImpressions: []dtos.ImpressionRecord{
			{KeyName: "some_key_1", Treatment: "on", Time: 1234567890},
			{KeyName: "some_key_2", Treatment: "off", Time: 1234567891},
		},
	}}, metadata)
	if err != nil {
		t.Error("Error posting impressions: ", err)
	}
	if !requestReceived {
		t.Error("Request not received by the test server")
	}
}

func TestPostImpressionsCount(t *testing.T) {
	logger := logging.NewLogger(&logging.LoggerOptions{})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/testImpressions/count" {
			t.Error("Invalid path ", r.URL.Path)
		}

		body, _ := io.ReadAll(r.Body)
		var pf dtos.ImpressionsCountDTO
		if err := json.Unmarshal(body, &pf); err != nil {
			t.Error("Error parsing json: ", err)
			return
		}
		if len(pf.PerFeature) != 1 || pf.PerFeature[0].FeatureName != "some_feature" || pf.PerFeature[0].RawCount != 10 {
			t.Error("Incorrect counts received")
		}
	}))
	defer ts.Close()

	recorder := NewHTTPImpressionRecorder("some_api_key", ts.URL, 0, logger)

	err := recorder.RecordImpressionsCount(dtos.ImpressionsCountDTO{
		PerFeature: []dtos.ImpressionCountPerFeature{{FeatureName: "some_feature", TimeFrame: 1234567890, RawCount: 10}},
	}, dtos.Metadata{SDKVersion: "1.0.0"})
	if err != nil {
		t.Error("Error posting counts: ", err)
	}
}

func TestPostUniqueKeys(t *testing.T) {
	logger := logging.NewLogger(&logging.LoggerOptions{})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/keys/ss" {
			t.Error("Invalid path ", r.URL.Path)
		}

		body, _ := io.ReadAll(r.Body)
		var uniques dtos.UniquesDTO
		if err := json.Unmarshal(body, &uniques); err != nil {
			t.Error("Error parsing json: ", err)
			return
		}
		if len(uniques.Keys) != 1 || uniques.Keys[0].Feature != "some_feature" {
			t.Error("Incorrect uniques received")
		}
	}))
	defer ts.Close()

	recorder := NewHTTPImpressionRecorder("some_api_key", ts.URL, 0, logger)

	err := recorder.RecordUniqueKeys(dtos.UniquesDTO{
		Keys: []dtos.UniqueKeysDTO{{Feature: "some_feature", Keys: []string{"key1", "key2"}}},
	}, dtos.Metadata{SDKVersion: "1.0.0"})
	if err != nil {
		t.Error("Error posting unique keys: ", err)
	}
}

func TestPostErrorStatus(t *testing.T) {
	logger := logging.NewLogger(&logging.LoggerOptions{})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer ts.Close()

	recorder := NewHTTPImpressionRecorder("some_api_key", ts.URL, 0, logger)

	err := recorder.Record([]dtos.ImpressionsDTO{{TestName: "some_test"}}, dtos.Metadata{})
	if err == nil {
		t.Error("A 500 response should surface as an error")
	}
}

func TestMachineNameFallsBackToIP(t *testing.T) {
	logger := logging.NewLogger(&logging.LoggerOptions{})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("SplitSDKMachineName") != "ip-10-0-0-1" {
			t.Error("Machine name should fall back to the IP, got ", r.Header.Get("SplitSDKMachineName"))
		}
	}))
	defer ts.Close()

	recorder := NewHTTPImpressionRecorder("some_api_key", ts.URL, 0, logger)
	err := recorder.Record([]dtos.ImpressionsDTO{{TestName: "t"}}, dtos.Metadata{SDKVersion: "1.0.0", MachineIP: "10.0.0.1"})
	if err != nil {
		t.Error("Unexpected error: ", err)
	}
}
