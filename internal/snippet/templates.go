package snippet

const templates = `
{{define "detailed-review"}}<div style="margin-bottom: 25px;">
  <a href="{{.Link}}" target="_blank" rel="nofollow sponsored" style="text-decoration: none; color: inherit; display: block; border: 1px solid #ddd; border-radius: 10px; padding: 20px; background: #fff; box-shadow: 0 4px 12px rgba(0,0,0,0.08);">
    <div style="display: flex; align-items: center; gap: 20px; border-bottom: 1px solid #eee; padding-bottom: 15px; margin-bottom: 15px;">
      <img src="{{.Image}}" style="width: 80px; height: 80px; object-fit: contain; flex-shrink: 0;" alt="{{.Title}}">
      <div style="flex: 1;">
        <h4 style="margin: 0; color: #2c3e50; font-size: 18px;">{{.Title}}</h4>
        {{.Stars}}
        <p style="margin: 5px 0 0 0; font-size: 13px; color: #555;">{{.Description}}</p>
      </div>
      <div style="min-width: 140px; text-align: right;">
        <span style="background: #e67e22; color: white; padding: 10px 20px; border-radius: 5px; font-size: 14px; font-weight: bold; display: inline-block;">Check Price &rarr;</span>
      </div>
    </div>
    <div style="display: flex; flex-wrap: wrap; gap: 20px;">
      <div class="pros" style="flex: 1; min-width: 45%; padding: 10px; border-left: 3px solid #2ecc71; background: #f7fff7;">
        <h5 style="margin: 0 0 5px 0; color: #27ae60; font-size: 15px;">PROS:</h5>
        <ul style="list-style: none; padding: 0; margin: 0; font-size: 13px; color: #333;">{{range .Pros}}<li>&#10003; {{.}}</li>{{end}}</ul>
      </div>
      <div class="cons" style="flex: 1; min-width: 45%; padding: 10px; border-left: 3px solid #e74c3c; background: #fff7f7;">
        <h5 style="margin: 0 0 5px 0; color: #c0392b; font-size: 15px;">CONS:</h5>
        <ul style="list-style: none; padding: 0; margin: 0; font-size: 13px; color: #333;">{{range .Cons}}<li>&#10007; {{.}}</li>{{end}}</ul>
      </div>
    </div>
  </a>
</div>
{{end}}

{{define "benefit-badge"}}<div style="margin-bottom: 25px;">
  <a href="{{.Link}}" target="_blank" rel="nofollow sponsored" style="text-decoration: none; color: inherit; display: block; position: relative; border: 2px solid {{.BadgeColor}}; border-radius: 8px; padding: 20px; background: #fff; box-shadow: 0 4px 10px rgba(0,0,0,0.05);">
    <div class="badge" style="position: absolute; top: -12px; left: 20px; background: {{.BadgeColor}}; color: white; padding: 2px 12px; font-size: 12px; font-weight: bold; border-radius: 4px; text-transform: uppercase;">{{.BadgeText}}</div>
    <div style="display: flex; align-items: center; gap: 20px; flex-wrap: wrap;">
      <img src="{{.Image}}" style="width: 80px; height: 80px; object-fit: contain; flex-shrink: 0;" alt="{{.Title}}">
      <div style="flex: 1;">
        <h4 style="margin: 0; color: #333;">{{.Title}}</h4>
        {{.Stars}}
        <p style="margin: 5px 0 0 0; font-size: 13px; color: #666;">{{.Description}}</p>
      </div>
      <div style="text-align: right; min-width: 120px;">
        <span style="background: {{.BadgeColor}}; color: white; padding: 10px 15px; border-radius: 4px; font-size: 13px; font-weight: bold; display: inline-block;">Check Price &rarr;</span>
      </div>
    </div>
  </a>
</div>
{{end}}

{{define "featured-deal"}}<div style="margin-bottom: 30px;">
  <a href="{{.Link}}" target="_blank" rel="nofollow sponsored" style="text-decoration: none; color: inherit; display: block; position: relative; border-radius: 12px; padding: 20px; background: linear-gradient(145deg, #f0f0f0, #ffffff); box-shadow: 0 8px 20px rgba(0,0,0,0.15);">
    <div class="badge" style="position: absolute; top: 0; right: 0; background: {{.DealColor}}; color: white; padding: 6px 15px; font-size: 14px; font-weight: bold; border-bottom-left-radius: 10px;">{{.BadgeText}}</div>
    <div style="display: flex; align-items: center; gap: 20px; flex-wrap: wrap; padding-top: 15px;">
      <img src="{{.Image}}" style="width: 100px; height: 100px; object-fit: contain; flex-shrink: 0;" alt="{{.Title}}">
      <div style="flex: 1;">
        <h4 style="margin: 0; color: #333; font-size: 18px;">{{.Title}}</h4>
        {{.Stars}}
        <p style="margin: 5px 0 15px 0; font-size: 14px; color: #555; border-bottom: 1px dashed #ddd; padding-bottom: 10px;">{{.Description}}</p>
        <div style="text-align: left;">
          <span style="background: #c0392b; color: white; padding: 12px 25px; border-radius: 8px; font-size: 15px; font-weight: bold; display: inline-block;">See Deal on Amazon &rarr;</span>
        </div>
      </div>
    </div>
  </a>
</div>
{{end}}

{{define "feature-callout"}}<div style="margin-bottom: 25px;">
  <a href="{{.Link}}" target="_blank" rel="nofollow sponsored" style="text-decoration: none; color: inherit; display: block; border: 1px solid #ddd; border-left: 8px solid #3498db; border-radius: 10px; padding: 20px; background: #f7f7f7; box-shadow: 0 4px 8px rgba(0,0,0,0.05);">
    <div style="display: flex; gap: 20px; flex-wrap: wrap;">
      <div style="flex-shrink: 0; text-align: center;">
        <img src="{{.Image}}" style="width: 80px; height: 80px; object-fit: contain; margin-bottom: 5px;" alt="{{.Title}}">
        <div style="color: #ffa41c; font-size: 12px; font-weight: bold;">{{.Rating}} Stars</div>
      </div>
      <div style="flex: 1; min-width: 250px;">
        <h4 style="margin: 0 0 8px 0; color: #333; font-size: 18px;">{{.Title}}</h4>
        <ul class="features" style="list-style: none; padding: 0; margin: 0; font-size: 13px; color: #555;">{{range .Features}}<li>&#9989; {{.}}</li>{{end}}</ul>
      </div>
      <div style="flex-shrink: 0; display: flex; align-items: center; justify-content: center;">
        <span style="background: #3498db; color: white; padding: 12px 20px; border-radius: 6px; font-size: 14px; font-weight: bold; display: inline-block;">Shop Now &rarr;</span>
      </div>
    </div>
  </a>
</div>
{{end}}

{{define "vertical-card"}}<div style="margin-bottom: 25px; display: inline-block; width: 100%; max-width: 300px; vertical-align: top; margin-right: 15px;">
  <a href="{{.Link}}" target="_blank" rel="nofollow sponsored" style="text-decoration: none; color: inherit; display: block; border: 1px solid #eee; border-radius: 12px; padding: 20px; background: #fff; box-shadow: 0 4px 15px rgba(0,0,0,0.06); transition: transform 0.2s; text-align: center;">
    <div style="margin-bottom: 15px; height: 180px; display: flex; align-items: center; justify-content: center;">
      <img src="{{.Image}}" style="max-width: 100%; max-height: 100%; object-fit: contain;" alt="{{.Title}}">
    </div>
    <div class="badge" style="font-size: 11px; text-transform: uppercase; letter-spacing: 1px; color: #888; margin-bottom: 5px;">{{.BadgeText}}</div>
    <h4 style="margin: 0 0 10px 0; color: #222; font-size: 16px; line-height: 1.4; height: 45px; overflow: hidden;">{{.Title}}</h4>
    <div style="display: flex; justify-content: center; margin-bottom: 10px;">{{.Stars}}</div>
    <p style="font-size: 13px; color: #666; margin-bottom: 15px; line-height: 1.5; height: 40px; overflow: hidden;">{{.Description}}</p>
    <span style="background: #111; color: white; padding: 12px 0; width: 100%; border-radius: 6px; font-size: 14px; font-weight: bold; display: block;">Check Price</span>
  </a>
</div>
{{end}}

{{define "disclosure"}}<div class="disclosure" style="font-size: 11px; color: #888; margin-top: 15px; font-style: italic; text-align: right; clear: both;">{{.}}</div>
{{end}}
`
