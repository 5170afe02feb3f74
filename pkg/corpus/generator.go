package corpus

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/zpam/spamnb/pkg/learning"
)

// emailsPerDir matches the data/NNN/MMM layout of TREC06C
const emailsPerDir = 300

// Generator writes synthetic corpora in the TREC06C layout for smoke tests
type Generator struct {
	rand *rand.Rand

	spamSubjects  []string
	hamSubjects   []string
	spamSentences []string
	hamSentences  []string
	spamDomains   []string
	hamDomains    []string
	names         []string
}

// NewGenerator creates a generator. Zero seeds from the clock.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		rand: rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15)),

		spamSubjects: []string{
			"恭喜您中奖了", "代开发票", "特价优惠限时抢购", "免费领取礼品",
			"投资理财高回报", "低价出售办公用品", "诚招代理加盟",
		},
		hamSubjects: []string{
			"明天下午开会", "季度报告", "项目进度更新", "周末聚餐安排",
			"论文修改意见", "课程安排通知", "回复：预算审批",
		},
		spamSentences: []string{
			"本公司常年代开各类发票，税点优惠，欢迎来电咨询。",
			"恭喜您获得本期大奖，请尽快提供银行账号领取奖金。",
			"限时特价，全场商品一律五折，机会难得不要错过。",
			"诚邀各地代理加盟，零风险高回报，轻松月入过万。",
			"免费赠送精美礼品，点击链接立即领取。",
			"专业办理各类证件，保密快捷，价格从优。",
			"投资理财产品年化收益百分之三十，保本保息。",
		},
		hamSentences: []string{
			"明天下午两点在会议室讨论项目进度，请准时参加。",
			"附件是本季度的报告，请审阅后提出修改意见。",
			"论文第三章的实验部分还需要补充数据。",
			"周末大家一起去吃饭，地点定在学校附近的餐厅。",
			"老师说下周的课程调整到周三上午。",
			"预算已经批下来了，可以开始采购设备。",
			"谢谢你上次的帮助，有空一起喝咖啡聊聊。",
		},
		spamDomains: []string{"fapiao-daikai.com", "zhongjiang.net", "tejia-shop.cn", "licai888.com"},
		hamDomains:  []string{"tsinghua.edu.cn", "pku.edu.cn", "163.com", "sina.com", "company.com.cn"},
		names:       []string{"zhangwei", "wangfang", "liuyang", "chenjing", "lihua", "zhaolei"},
	}
}

// Email renders one message for label as UTF-8
func (g *Generator) Email(label learning.Label) string {
	var from, subject string
	var sentences []string
	if label == learning.Spam {
		from = fmt.Sprintf("%s@%s", g.choice(g.names), g.choice(g.spamDomains))
		subject = g.choice(g.spamSubjects)
		sentences = g.spamSentences
	} else {
		from = fmt.Sprintf("%s@%s", g.choice(g.names), g.choice(g.hamDomains))
		subject = g.choice(g.hamSubjects)
		sentences = g.hamSentences
	}

	var body strings.Builder
	for i, n := 0, 2+g.rand.IntN(4); i < n; i++ {
		body.WriteString(g.choice(sentences))
		body.WriteString("\n")
	}

	return fmt.Sprintf("Received: from %s\nFrom: %s\nTo: %s@%s\nSubject: %s\nMessage-ID: <%d@generator.local>\n\n%s",
		g.choice(g.hamDomains),
		from,
		g.choice(g.names),
		g.choice(g.hamDomains),
		subject,
		g.rand.Int64(),
		body.String(),
	)
}

// WriteCorpus writes count GB18030 encoded emails under dir/data and their
// labels to dir/full/index, in shuffled order. It returns the spam and ham counts.
func (g *Generator) WriteCorpus(dir string, count int, spamRatio float64) (spam, ham int, err error) {
	if count <= 0 {
		return 0, 0, fmt.Errorf("count must be greater than 0")
	}
	if spamRatio < 0 || spamRatio > 1 {
		return 0, 0, fmt.Errorf("spam ratio must be between 0 and 1")
	}

	spam = int(float64(count) * spamRatio)
	ham = count - spam

	labels := make([]learning.Label, count)
	for i := range labels {
		if i < spam {
			labels[i] = learning.Spam
		}
	}
	g.rand.Shuffle(len(labels), func(i, j int) { labels[i], labels[j] = labels[j], labels[i] })

	if err := os.MkdirAll(filepath.Join(dir, "full"), 0755); err != nil {
		return 0, 0, fmt.Errorf("failed to create corpus directory: %w", err)
	}

	var index strings.Builder
	enc := simplifiedchinese.GB18030.NewEncoder()
	for i, label := range labels {
		rel := fmt.Sprintf("data/%03d/%03d", i/emailsPerDir, i%emailsPerDir)
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return 0, 0, fmt.Errorf("failed to create corpus directory: %w", err)
		}

		raw, err := enc.Bytes([]byte(g.Email(label)))
		if err != nil {
			return 0, 0, fmt.Errorf("failed to encode email %d: %w", i, err)
		}
		if err := os.WriteFile(path, raw, 0644); err != nil {
			return 0, 0, fmt.Errorf("failed to write email %d: %w", i, err)
		}

		fmt.Fprintf(&index, "%s %s%s\n", label, DefaultPathPrefix, rel)
	}

	if err := os.WriteFile(filepath.Join(dir, "full", "index"), []byte(index.String()), 0644); err != nil {
		return 0, 0, fmt.Errorf("failed to write corpus index: %w", err)
	}

	return spam, ham, nil
}

func (g *Generator) choice(items []string) string {
	return items[g.rand.IntN(len(items))]
}
