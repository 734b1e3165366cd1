package xmltree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfextract/internal/domain"
)

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"whitespace": "   \n\t",
		"plain_text": "not xml at all",
		"unclosed":   "<nfeProc><NFe>",
		"mismatched": "<nfeProc><NFe></nfeProc></NFe>",
		"bad_attr":   `<NFe versao=4.00></NFe>`,
		"two_roots":  `<NFe><infNFe/></NFe><x/>`,
		"two_docs":   `<nfeProc><NFe/></nfeProc>` + "\n" + `<nfeProc><NFe/></nfeProc>`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			tree, err := Parse([]byte(input))
			require.Error(t, err)
			assert.Nil(t, tree)

			var malformed *domain.MalformedInputError
			assert.True(t, errors.As(err, &malformed))
			assert.ErrorIs(t, err, domain.ErrMalformedInput)
		})
	}
}

func TestParse_AcceptsVariants(t *testing.T) {
	cases := map[string]string{
		"no_declaration": `<nfeProc><NFe/></nfeProc>`,
		"declaration":    `<?xml version="1.0" encoding="UTF-8"?><nfeProc/>`,
		"bom":            "\xEF\xBB\xBF<NFe/>",
		"namespace":      `<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe" versao="4.00"><NFe/></nfeProc>`,
		"prefixed":       `<nfe:NFe xmlns:nfe="http://www.portalfiscal.inf.br/nfe"><nfe:infNFe/></nfe:NFe>`,
		"latin1":         "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><NFe><xNome>Jo\xe3o</xNome></NFe>",
		"trailing_misc":  "<NFe/>\n<!-- assinado -->\n<?proc done?>\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			tree, err := Parse([]byte(input))
			require.NoError(t, err)
			require.NotNil(t, tree.Root())
		})
	}
}

func TestParse_Latin1Decoded(t *testing.T) {
	tree, err := Parse([]byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><NFe><xNome>Jo\xe3o</xNome></NFe>"))
	require.NoError(t, err)
	assert.Equal(t, "João", Text(tree.Scope(), "xNome", ""))
}

func TestTree_RootTagIgnoresPrefix(t *testing.T) {
	tree, err := Parse([]byte(`<nfe:NFe xmlns:nfe="urn:x"><nfe:infNFe Id="NFe1"/></nfe:NFe>`))
	require.NoError(t, err)
	assert.Equal(t, "NFe", tree.RootTag())
	assert.NotNil(t, tree.Scope().First("infNFe"))
}
