package codec_test

import (
	"testing"

	"github.com/aretw0/talktyper/pkg/codec"
	"github.com/aretw0/talktyper/pkg/core"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_LocalStorageCompatible(t *testing.T) {
	notes := []core.Note{{Timestamp: "2024-01-01 10:00", Transcription: "hello world"}}

	data, err := codec.JSON{}.Encode(notes)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"timestamp":"2024-01-01 10:00","transcription":"hello world"}]`, string(data))
}

func TestJSON_EncodesLikeBrowser(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"html", "<a & b>", `[{"timestamp":"t","transcription":"<a & b>"}]`},
		{"line separator", "a\u2028b", "[{\"timestamp\":\"t\",\"transcription\":\"a\u2028b\"}]"},
		{"escaped backslash", `x\u2028`, `[{"timestamp":"t","transcription":"x\\u2028"}]`},
		{"quote and newline", "say \"hi\"\n", `[{"timestamp":"t","transcription":"say \"hi\"\n"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := codec.JSON{}.Encode([]core.Note{{Timestamp: "t", Transcription: tt.text}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))

			back, err := codec.JSON{}.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.text, back[0].Transcription)
		})
	}
}

func TestJSON_EncodeEmpty(t *testing.T) {
	data, err := codec.JSON{}.Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDecode_RoundTrip(t *testing.T) {
	notes := []core.Note{
		{Timestamp: "1/2/2024, 9:00:00 AM", Transcription: "first"},
		{Timestamp: "1/2/2024, 9:05:00 AM", Transcription: ""},
		{Timestamp: "1/2/2024, 9:10:00 AM", Transcription: "multi\nline: with colon"},
	}

	for _, c := range []core.Codec{codec.JSON{}, codec.YAML{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Encode(notes)
			require.NoError(t, err)

			got, err := c.Decode(data)
			require.NoError(t, err)
			if diff := cmp.Diff(notes, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := map[string]struct {
		c    core.Codec
		data string
	}{
		"json garbage":        {codec.JSON{}, `{not json`},
		"json object":         {codec.JSON{}, `{"timestamp":"a","transcription":"b"}`},
		"json null entry":     {codec.JSON{}, `[null]`},
		"json missing field":  {codec.JSON{}, `[{"timestamp":"a"}]`},
		"json wrong type":     {codec.JSON{}, `[{"timestamp":1,"transcription":"b"}]`},
		"yaml null entry":     {codec.YAML{}, "- null\n"},
		"yaml missing field":  {codec.YAML{}, "- transcription: b\n"},
		"yaml not a sequence": {codec.YAML{}, "timestamp: a\n"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tc.c.Decode([]byte(tc.data))
			assert.ErrorIs(t, err, codec.ErrMalformed)
		})
	}
}

func TestDecode_NullDocumentIsEmpty(t *testing.T) {
	got, err := codec.JSON{}.Decode([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestByName(t *testing.T) {
	c, err := codec.ByName("")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	c, err = codec.ByName(".yml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Name())

	_, err = codec.ByName("xml")
	assert.Error(t, err)
}
