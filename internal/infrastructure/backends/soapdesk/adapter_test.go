package soapdesk

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskhub/internal/domain/helpdesk"
	"deskhub/internal/shared/logger"
)

const testNamespace = "urn:servicedesk"

var testIdentity = helpdesk.Identity{UserID: 7, Username: "ivanov", Secret: "secret"}

const loginReply = `<Envelope><Body><LoginResponse><token>sess-1</token></LoginResponse></Body></Envelope>`

// newSOAPServer dispatches on the SOAPAction suffix; Login is answered with
// a fixed token so action handlers only cover their own operation.
func newSOAPServer(t *testing.T, replies map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		action := r.Header.Get("SOAPAction")
		_, name, found := strings.Cut(action, "#")
		if !found {
			t.Errorf("malformed SOAPAction %q", action)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if name == "Login" {
			io.WriteString(w, loginReply)
			return
		}
		reply, ok := replies[name]
		if !ok {
			t.Errorf("unexpected action %q", name)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, reply)
	}))
}

func newTestAdapter(url string) *Adapter {
	return New(url, testNamespace, 2*time.Second, logger.Nop())
}

func TestFetchRoutesMapsWireFormat(t *testing.T) {
	srv := newSOAPServer(t, map[string]string{
		"GetRoutes": `<Envelope><Body><GetRoutesResponse><routes>
			<route>
				<code>net</code>
				<name>Network</name>
				<note>&lt;p&gt;VPN &amp;amp; Wi-Fi&lt;/p&gt;</note>
				<services>
					<service><code>vpn</code><name>VPN access</name></service>
				</services>
			</route>
		</routes></GetRoutesResponse></Body></Envelope>`,
	})
	defer srv.Close()

	result, err := newTestAdapter(srv.URL).FetchRoutes(context.Background(), testIdentity)

	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	route := result.Items[0]
	assert.Equal(t, helpdesk.OriginLegacy, route.Origin)
	assert.Equal(t, "net", route.Code)
	assert.Equal(t, "Network", route.Name)
	assert.Equal(t, "VPN & Wi-Fi", route.Description)
	require.Len(t, route.Services, 1)
	assert.Equal(t, "vpn", route.Services[0].Code)
	assert.Equal(t, "net", route.Services[0].RouteCode)
	assert.Equal(t, helpdesk.OriginLegacy, route.Services[0].Origin)
}

func TestFetchRoutesMissingContainerIsEmptyResult(t *testing.T) {
	srv := newSOAPServer(t, map[string]string{
		"GetRoutes": `<Envelope><Body><GetRoutesResponse/></Body></Envelope>`,
	})
	defer srv.Close()

	_, err := newTestAdapter(srv.URL).FetchRoutes(context.Background(), testIdentity)

	require.Error(t, err)
	assert.Equal(t, helpdesk.ErrBackendEmptyResult, helpdesk.CodeOf(err))
}

func TestFetchTasksMapsWireFormat(t *testing.T) {
	srv := newSOAPServer(t, map[string]string{
		"GetTasks": `<Envelope><Body><GetTasksResponse><tasks>
			<task>
				<id>101</id>
				<number>SD-101</number>
				<name>Printer jam</name>
				<content>&lt;b&gt;Paper&lt;/b&gt; stuck in tray 2</content>
				<state>open</state>
				<creationDate>2026-02-10T09:30:00</creationDate>
				<deadline>1900-01-01T00:00:00</deadline>
				<closeDate></closeDate>
				<author>
					<login>ivanov</login>
					<fullName>Ivan Ivanov</fullName>
					<orgUnit>IT Department, Support Division</orgUnit>
				</author>
				<executor>
					<login>petrov</login>
					<orgUnit>Facilities</orgUnit>
				</executor>
			</task>
		</tasks></GetTasksResponse></Body></Envelope>`,
	})
	defer srv.Close()

	result, err := newTestAdapter(srv.URL).FetchTasks(context.Background(), testIdentity, helpdesk.TaskFilter{})

	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	task := result.Items[0]

	assert.Equal(t, "101", task.ID)
	assert.Equal(t, "SD-101", task.Code)
	assert.Equal(t, "Paper stuck in tray 2", task.Body)
	assert.Equal(t, "Paper stuck in tray 2", task.SmallBody)

	require.NotNil(t, task.CreatedDate)
	assert.Equal(t, time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC), *task.CreatedDate)
	assert.Nil(t, task.TimeoutDate, "1900 sentinel maps to no date")
	assert.Nil(t, task.EndDate, "empty date maps to no date")

	assert.Equal(t, "IT Department", task.Initiator.Department)
	assert.Equal(t, "Support Division", task.Initiator.Division)
	assert.Equal(t, "Facilities", task.Executor.Department)
	assert.Empty(t, task.Executor.Division, "no comma means no division")
}

func TestFetchTaskDetail(t *testing.T) {
	srv := newSOAPServer(t, map[string]string{
		"GetTask": `<Envelope><Body><GetTaskResponse><task>
			<id>101</id>
			<name>Printer jam</name>
			<comments>
				<comment>
					<code>c1</code>
					<date>2026-02-11T08:00:00</date>
					<author>petrov</author>
					<content>&lt;i&gt;looking&lt;/i&gt; into it</content>
				</comment>
			</comments>
			<files>
				<file><id>f1</id><name>photo.jpg</name><ext>jpg</ext><mime>image/jpeg</mime></file>
			</files>
		</task></GetTaskResponse></Body></Envelope>`,
	})
	defer srv.Close()

	task, err := newTestAdapter(srv.URL).FetchTaskDetail(context.Background(), testIdentity,
		helpdesk.TaskRef{Origin: helpdesk.OriginLegacy, ID: "101"})

	require.NoError(t, err)
	require.Len(t, task.Comments, 1)
	assert.Equal(t, "looking into it", task.Comments[0].Body)
	assert.Equal(t, "petrov", task.Comments[0].AuthorLogin)
	require.Len(t, task.Files, 1)
	assert.Equal(t, "photo.jpg", task.Files[0].Name)
	assert.Nil(t, task.Files[0].Body, "list fetches never carry file bodies")
}

func TestFetchFileDecodesBase64(t *testing.T) {
	content := base64.StdEncoding.EncodeToString([]byte("file-bytes"))
	srv := newSOAPServer(t, map[string]string{
		"GetFile": `<Envelope><Body><GetFileResponse><file>
			<id>f1</id><name>report.pdf</name><mime>application/pdf</mime>
			<content>` + content + `</content>
		</file></GetFileResponse></Body></Envelope>`,
	})
	defer srv.Close()

	file, err := newTestAdapter(srv.URL).FetchFile(context.Background(), testIdentity,
		helpdesk.FileRef{Origin: helpdesk.OriginLegacy, ID: "f1", Name: "report.pdf"})

	require.NoError(t, err)
	assert.Equal(t, []byte("file-bytes"), file.Body)
	assert.Equal(t, "report.pdf", file.Name)
}

func TestSubmitTask(t *testing.T) {
	srv := newSOAPServer(t, map[string]string{
		"CreateTask": `<Envelope><Body><CreateTaskResponse>
			<id>500</id><number>SD-500</number>
		</CreateTaskResponse></Body></Envelope>`,
	})
	defer srv.Close()

	created, err := newTestAdapter(srv.URL).SubmitTask(context.Background(), testIdentity,
		helpdesk.NewTask{RouteCode: "net", ServiceCode: "vpn", Subject: "need vpn"},
		[]helpdesk.Attachment{{Name: "form.pdf", Body: []byte("pdf")}})

	require.NoError(t, err)
	assert.Equal(t, "500", created.ID)
	assert.Equal(t, "SD-500", created.Code)
	assert.Equal(t, helpdesk.OriginLegacy, created.Origin)
}

func TestSOAPFaultClassifiesAsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `<Envelope><Body><Fault>
			<faultcode>Server</faultcode>
			<faultstring>session storage unavailable</faultstring>
		</Fault></Body></Envelope>`)
	}))
	defer srv.Close()

	_, err := newTestAdapter(srv.URL).FetchRoutes(context.Background(), testIdentity)

	require.Error(t, err)
	assert.Equal(t, helpdesk.ErrBackendUnreachable, helpdesk.CodeOf(err))
	assert.Contains(t, err.Error(), "session storage unavailable")
}

func TestSlowBackendClassifiesAsTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	adapter := New(srv.URL, testNamespace, 50*time.Millisecond, logger.Nop())
	_, err := adapter.FetchRoutes(context.Background(), testIdentity)

	require.Error(t, err)
	assert.Equal(t, helpdesk.ErrBackendTimeout, helpdesk.CodeOf(err))
}

func TestUnreachableHostClassifiesAsUnreachable(t *testing.T) {
	adapter := New("http://127.0.0.1:1", testNamespace, time.Second, logger.Nop())

	_, err := adapter.FetchRoutes(context.Background(), testIdentity)

	require.Error(t, err)
	assert.Equal(t, helpdesk.ErrBackendUnreachable, helpdesk.CodeOf(err))
}

func TestParseDate(t *testing.T) {
	t.Run("valid timestamp", func(t *testing.T) {
		got := parseDate("2026-02-10T09:30:00")
		require.NotNil(t, got)
		assert.Equal(t, time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC), *got)
	})

	t.Run("sentinels map to nil", func(t *testing.T) {
		assert.Nil(t, parseDate(""))
		assert.Nil(t, parseDate("   "))
		assert.Nil(t, parseDate("0001-01-01T00:00:00"))
		assert.Nil(t, parseDate("1900-01-01T00:00:00"))
	})

	t.Run("garbage maps to nil", func(t *testing.T) {
		assert.Nil(t, parseDate("not-a-date"))
	})
}
